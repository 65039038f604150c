package ledger

import "sort"

// GroupByMonth groups transactions by their YYYY-MM period, preserving
// input order within each period.
func GroupByMonth(txns []Transaction) map[string][]Transaction {
	groups := make(map[string][]Transaction)
	for _, txn := range txns {
		key := txn.Month()
		groups[key] = append(groups[key], txn)
	}
	return groups
}

// MonthKeys returns the period keys of a grouping in ascending order.
func MonthKeys(groups map[string][]Transaction) []string {
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
