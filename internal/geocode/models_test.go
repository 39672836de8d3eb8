package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_PriorityOrder(t *testing.T) {
	components := AddressComponents{
		"road_region_2depth": "강남구",
		"region_2depth":      "서초구",
		"region_1depth":      "서울특별시",
	}

	assert.Equal(t, "강남구", Extract(components, CityRules))

	// Road-address component wins only when present.
	delete(components, "road_region_2depth")
	assert.Equal(t, "서초구", Extract(components, CityRules))

	delete(components, "region_2depth")
	assert.Equal(t, "서울특별시", Extract(components, CityRules))

	delete(components, "region_1depth")
	assert.Equal(t, "", Extract(components, CityRules))
}

func TestPlaceFromComponents(t *testing.T) {
	place := PlaceFromComponents(AddressComponents{
		"region_1depth": "부산광역시",
		"region_2depth": "해운대구",
		"region_3depth": "우동",
		"address_name":  "부산광역시 해운대구 우동",
	})
	require.NotNil(t, place)
	assert.Equal(t, "해운대구", place.City)
	assert.Equal(t, "우동", place.District)
	assert.Equal(t, "부산광역시", place.Province)
	assert.Equal(t, "대한민국", place.Country)
}

func TestPlaceFromComponents_EmptyIsNil(t *testing.T) {
	assert.Nil(t, PlaceFromComponents(AddressComponents{}))
	assert.Nil(t, PlaceFromComponents(AddressComponents{"region_1depth": "서울특별시"}))
}
