package main

import "github.com/banshee-data/osi-field-checker/internal/monitoring"

// knownCategories filters the categories passed to fmi2SetDebugLogging down
// to the ones the component logs under.
func knownCategories(names []string) (known, unknown []string) {
	for _, n := range names {
		ok := false
		for _, c := range monitoring.AllCategories {
			if string(c) == n {
				ok = true
				break
			}
		}
		if ok {
			known = append(known, n)
		} else {
			unknown = append(unknown, n)
		}
	}
	return known, unknown
}
