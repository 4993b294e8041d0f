package transform

// Distinct removes duplicate rows, keeping the first occurrence of each key
// and preserving input order. Identity is the full tuple produced by key, not
// any single column.
func Distinct[T any, K comparable](rows []T, key func(T) K) []T {
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		k := key(row)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out
}
