// Package geo converts WGS84 coordinates into the KMA DFS grid used by the
// short-term forecast APIs. The projection is a Lambert conformal conic with
// the reference parameters published by the KMA.
package geo

import (
	"errors"
	"math"
)

// ErrInvalidCoordinates is returned when a latitude or longitude is outside
// the WGS84 domain.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Cell is a discrete coordinate in the KMA grid.
type Cell struct {
	X int
	Y int
}

// Projection reference parameters.
const (
	earthRadiusKm = 6371.00877 // earth radius
	gridSpacingKm = 5.0        // grid cell size
	stdParallel1  = 30.0       // first standard parallel
	stdParallel2  = 60.0       // second standard parallel
	originLon     = 126.0      // reference longitude
	originLat     = 38.0       // reference latitude
	originX       = 43         // grid offset of the reference point
	originY       = 136
)

// Derived projection constants, computed once.
var (
	re = earthRadiusKm / gridSpacingKm
	sn float64
	sf float64
	ro float64
)

func init() {
	slat1 := stdParallel1 * math.Pi / 180
	slat2 := stdParallel2 * math.Pi / 180
	olat := originLat * math.Pi / 180

	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) /
		math.Log(math.Tan(math.Pi*0.25+slat2*0.5)/math.Tan(math.Pi*0.25+slat1*0.5))
	sf = math.Pow(math.Tan(math.Pi*0.25+slat1*0.5), sn) * math.Cos(slat1) / sn
	ro = re * sf / math.Pow(math.Tan(math.Pi*0.25+olat*0.5), sn)
}

// Project maps a WGS84 coordinate onto the KMA grid. It is pure and total
// over the valid coordinate domain; out-of-service-area coordinates still
// yield a cell, the provider rejects those at the HTTP layer.
func Project(lat, lon float64) Cell {
	olon := originLon * math.Pi / 180

	ra := re * sf / math.Pow(math.Tan(math.Pi*0.25+lat*math.Pi/180*0.5), sn)

	theta := lon*math.Pi/180 - olon
	if theta > math.Pi {
		theta -= 2 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2 * math.Pi
	}
	theta *= sn

	x := int(math.Floor(ra*math.Sin(theta) + originX + 0.5))
	y := int(math.Floor(ro - ra*math.Cos(theta) + originY + 0.5))

	return Cell{X: x, Y: y}
}

// ValidateCoordinates checks that a coordinate lies within the WGS84 domain.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}
