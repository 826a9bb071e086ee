package store

import (
	"github.com/sahilm/fuzzy"
)

// Suggest returns up to n catalog names that fuzzily match the query,
// used as did-you-mean hints on failed lookups. Both Hebrew and
// English names are searched; each medication appears at most once,
// best match first.
func (s *Store) Suggest(query string, n int) []string {
	if query == "" || n <= 0 {
		return nil
	}

	targets := make([]string, 0, len(s.meds)*2)
	owners := make([]*Medication, 0, len(s.meds)*2)
	for _, m := range s.meds {
		targets = append(targets, m.NameEN, m.Name)
		owners = append(owners, m, m)
	}

	matches := fuzzy.Find(query, targets)
	seen := make(map[string]bool, n)
	var out []string
	for _, match := range matches {
		med := owners[match.Index]
		if seen[med.ID] {
			continue
		}
		seen[med.ID] = true
		out = append(out, targets[match.Index])
		if len(out) == n {
			break
		}
	}
	return out
}
