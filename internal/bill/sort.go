package bill

import "sort"

// SortByDateDesc orders bills most recent first, in place.
// Bills whose date cannot be parsed sort after every dated bill.
func SortByDateDesc(bills []*Bill) {
	keys := make(map[*Bill]int64, len(bills))
	for _, b := range bills {
		t, err := parseBillDate(b.Date)
		if err != nil {
			keys[b] = -1 << 62
			continue
		}
		keys[b] = t.Unix()
	}
	sort.SliceStable(bills, func(i, j int) bool {
		return keys[bills[i]] > keys[bills[j]]
	})
}
