package history

import "github.com/PraiseNight/models"

// Versioner hands out per-type version numbers. It starts from the count of
// stored entries of each type and advances once per entry handed out, so a
// batch never repeats a version.
type Versioner struct {
	counts map[string]int
}

func NewVersioner(existing []models.HistoryEntry) *Versioner {
	counts := make(map[string]int)
	for _, entry := range existing {
		counts[entry.Type]++
	}
	return &Versioner{counts: counts}
}

// Next returns the version for one more entry of entryType.
func (v *Versioner) Next(entryType string) int {
	v.counts[entryType]++
	return v.counts[entryType]
}

// NextVersion is the version a single new entry of entryType receives.
func NextVersion(existing []models.HistoryEntry, entryType string) int {
	return NewVersioner(existing).Next(entryType)
}
