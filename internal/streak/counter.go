package streak

import "github.com/julianstephens/pillars/internal/utils"

// History answers whether a day belongs to a run.
type History interface {
	Has(day string) bool
}

// DaySet is a History over a fixed set of YYYY-MM-DD keys.
type DaySet map[string]struct{}

func NewDaySet(days ...string) DaySet {
	set := make(DaySet, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set
}

func (s DaySet) Has(day string) bool {
	_, ok := s[day]
	return ok
}

// RunLength counts consecutive days in h ending at end, walking backwards.
// A limit > 0 bounds the walk to the lookback window.
func RunLength(h History, end string, limit int) int {
	n := 0
	day := end
	for h.Has(day) {
		n++
		if limit > 0 && n >= limit {
			break
		}
		day = utils.AddDays(day, -1)
	}
	return n
}
