package pdb

import "strings"

// MatchLAN reports whether an exchange LAN name satisfies any of the
// given filters. Matching is case-insensitive; with exact set a filter
// must equal the whole name, otherwise a substring hit is enough.
// An empty filter list matches everything.
func MatchLAN(name string, filters []string, exact bool) bool {
	if len(filters) == 0 {
		return true
	}
	lname := strings.ToLower(name)
	for _, f := range filters {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if exact {
			if lname == f {
				return true
			}
		} else if strings.Contains(lname, f) {
			return true
		}
	}
	return false
}

// MatchLANs narrows lans to those whose name passes MatchLAN, keeping
// input order. Zero matches is a valid, empty result.
func MatchLANs(lans []ExchangeLAN, filters []string, exact bool) []ExchangeLAN {
	if len(filters) == 0 {
		return lans
	}
	var out []ExchangeLAN
	for _, lan := range lans {
		if MatchLAN(lan.Name, filters, exact) {
			out = append(out, lan)
		}
	}
	return out
}
