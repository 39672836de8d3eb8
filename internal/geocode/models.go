// Package geocode defines the place-name model produced by reverse
// geocoding and the priority rules that extract it from provider address
// components.
package geocode

// Place is the optional place-name enrichment attached to a weather record.
type Place struct {
	City        string
	District    string
	Province    string
	Country     string
	AddressName string
}

// AddressComponents is a provider-agnostic view of one reverse-geocoded
// address, keyed by component name.
type AddressComponents map[string]string

// Rule names an address component to try for a field. Rules are evaluated
// in order and the first non-empty component wins, which keeps the
// historical ad hoc fallback chains declarative and testable.
type Rule struct {
	Name      string
	Component string
}

// Extraction priority: prefer the most specific administrative unit and
// fall back to progressively coarser ones.
var (
	CityRules = []Rule{
		{Name: "city from road address", Component: "road_region_2depth"},
		{Name: "city from lot address", Component: "region_2depth"},
		{Name: "province as city", Component: "region_1depth"},
	}

	DistrictRules = []Rule{
		{Name: "district from road address", Component: "road_region_3depth"},
		{Name: "district from lot address", Component: "region_3depth"},
	}

	ProvinceRules = []Rule{
		{Name: "province from road address", Component: "road_region_1depth"},
		{Name: "province from lot address", Component: "region_1depth"},
	}
)

// Extract evaluates rules against the components and returns the first
// non-empty match.
func Extract(components AddressComponents, rules []Rule) string {
	for _, r := range rules {
		if v := components[r.Component]; v != "" {
			return v
		}
	}
	return ""
}

// PlaceFromComponents assembles a Place using the priority rules.
func PlaceFromComponents(components AddressComponents) *Place {
	p := &Place{
		City:        Extract(components, CityRules),
		District:    Extract(components, DistrictRules),
		Province:    Extract(components, ProvinceRules),
		Country:     "대한민국",
		AddressName: components["address_name"],
	}
	if p.City == "" && p.District == "" && p.AddressName == "" {
		return nil
	}
	return p
}
