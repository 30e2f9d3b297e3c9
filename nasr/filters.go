// nasr/filters.go
package nasr

// Default inclusion lists: the western states the listing was built for.
var (
	DefaultStates      = []string{"CA", "ID", "OR", "WA", "NV", "AZ"}
	DefaultStateNames  = []string{"CALIFORNIA", "IDAHO", "OREGON", "WASHINGTON", "NEVADA", "ARIZONA"}
	DefaultNavaidTypes = []string{"VOR"} // NDBs are left out since their names collide with VORs.
)

// Filters holds the region and facility-type inclusion sets that decide
// which records become waypoints.
type Filters struct {
	States      map[string]bool // two-letter post office codes (APT, NAV)
	StateNames  map[string]bool // upper-case full state names (FIX)
	NavaidTypes map[string]bool // first three characters of the NAV facility type
}

func NewFilters(states, stateNames, navaidTypes []string) *Filters {
	return &Filters{
		States:      toSet(states),
		StateNames:  toSet(stateNames),
		NavaidTypes: toSet(navaidTypes),
	}
}

func DefaultFilters() *Filters {
	return NewFilters(DefaultStates, DefaultStateNames, DefaultNavaidTypes)
}

func toSet(s []string) map[string]bool {
	m := make(map[string]bool, len(s))
	for _, v := range s {
		m[v] = true
	}
	return m
}
