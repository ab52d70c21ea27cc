package maps

import "strings"

type Destination struct {
	Name string `json:"name"`
	Area string `json:"area"`
	Type string `json:"type"`
}

type Airport struct {
	Code string `json:"code"`
	Name string `json:"name"`
	City string `json:"city"`
}

var airports = []Airport{
	{Code: "CMB", Name: "Bandaranaike International Airport", City: "Colombo"},
	{Code: "JAF", Name: "Jaffna International Airport", City: "Jaffna"},
	{Code: "HRI", Name: "Mattala Rajapaksa International Airport", City: "Hambantota"},
	{Code: "RML", Name: "Ratmalana Airport", City: "Colombo"},
	{Code: "BTC", Name: "Batticaloa Airport", City: "Batticaloa"},
	{Code: "TRR", Name: "China Bay Airport", City: "Trincomalee"},
}

var destinations = []Destination{
	{"Colombo City Center", "Colombo", "city"},
	{"Colombo Fort", "Colombo", "city"},
	{"Negombo Beach", "Negombo", "beach"},
	{"Negombo City", "Negombo", "city"},
	{"Kandy City", "Kandy", "city"},
	{"Temple of the Tooth", "Kandy", "attraction"},
	{"Galle Fort", "Galle", "attraction"},
	{"Unawatuna Beach", "Galle", "beach"},
	{"Bentota Beach", "Bentota", "beach"},
	{"Hikkaduwa Beach", "Hikkaduwa", "beach"},
	{"Mirissa Beach", "Mirissa", "beach"},
	{"Tangalle Beach", "Tangalle", "beach"},
	{"Ella Town", "Ella", "hill-country"},
	{"Nine Arch Bridge", "Ella", "attraction"},
	{"Nuwara Eliya", "Nuwara Eliya", "hill-country"},
	{"Sigiriya Rock Fortress", "Sigiriya", "attraction"},
	{"Dambulla Cave Temple", "Dambulla", "attraction"},
	{"Polonnaruwa Ancient City", "Polonnaruwa", "attraction"},
	{"Anuradhapura Ancient City", "Anuradhapura", "attraction"},
	{"Yala National Park", "Yala", "wildlife"},
	{"Udawalawe National Park", "Udawalawe", "wildlife"},
	{"Wilpattu National Park", "Wilpattu", "wildlife"},
	{"Arugam Bay", "Arugam Bay", "beach"},
	{"Trincomalee", "Trincomalee", "beach"},
	{"Jaffna City", "Jaffna", "city"},
	{"Adams Peak", "Ratnapura", "attraction"},
	{"Horton Plains", "Nuwara Eliya", "nature"},
	{"Pinnawala Elephant Orphanage", "Kegalle", "wildlife"},
	{"Kalpitiya", "Kalpitiya", "beach"},
	{"Pasikuda Beach", "Batticaloa", "beach"},
	{"Hambantota", "Hambantota", "city"},
	{"Katunayake", "Katunayake", "city"},
	{"Mount Lavinia", "Mount Lavinia", "beach"},
	{"Wadduwa Beach", "Wadduwa", "beach"},
	{"Kalutara", "Kalutara", "city"},
}

const maxDestinationResults = 10

// SearchDestinations matches name or area, case-insensitively. Queries shorter
// than two characters return the first ten destinations.
func SearchDestinations(query string) []Destination {
	q := strings.TrimSpace(query)
	if len(q) < 2 {
		return append([]Destination(nil), destinations[:maxDestinationResults]...)
	}
	var out []Destination
	for _, d := range destinations {
		if containsIgnoreCase(d.Name, q) || containsIgnoreCase(d.Area, q) {
			out = append(out, d)
			if len(out) == maxDestinationResults {
				break
			}
		}
	}
	return out
}

// SearchAirports matches code, name or city. An empty query returns every airport.
func SearchAirports(query string) []Airport {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]Airport(nil), airports...)
	}
	var out []Airport
	for _, a := range airports {
		if containsIgnoreCase(a.Code, q) || containsIgnoreCase(a.Name, q) || containsIgnoreCase(a.City, q) {
			out = append(out, a)
		}
	}
	return out
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
