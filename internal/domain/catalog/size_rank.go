package catalog

import (
	"sort"
	"strings"
)

// UnknownSizeRank is the rank assigned to size labels that cannot be resolved
// to a canonical size. It is strictly greater than every canonical rank so
// unknown labels always sort last.
const UnknownSizeRank = 1 << 20

// DefaultSizeOrder is the canonical size ordering used for display sorting.
var DefaultSizeOrder = []string{"XS", "S", "M", "L", "XL", "XXL", "1X", "2X", "3X"}

// SizeRanker ranks size labels against a canonical ordering table. Labels that
// miss the direct lookup are resolved through an alias table (raw label to
// canonical label) before falling back to UnknownSizeRank. The ranker holds
// explicit state: callers construct a new instance to pick up table changes.
type SizeRanker struct {
	ranks   map[string]int
	aliases map[string]string
}

// NewSizeRanker creates a ranker from a canonical ordering (rank is list
// position) and an alias table mapping raw labels to canonical labels.
// All lookups are case-insensitive.
func NewSizeRanker(order []string, aliases map[string]string) *SizeRanker {
	r := &SizeRanker{
		ranks:   make(map[string]int, len(order)),
		aliases: make(map[string]string, len(aliases)),
	}
	for i, label := range order {
		r.ranks[normalizeSizeLabel(label)] = i
	}
	for raw, canonical := range aliases {
		r.aliases[normalizeSizeLabel(raw)] = normalizeSizeLabel(canonical)
	}
	return r
}

// Rank returns the sort rank for a size label. Unresolved labels, and aliases
// whose canonical target is itself missing from the ordering table, receive
// UnknownSizeRank. Rank never fails.
func (r *SizeRanker) Rank(label string) int {
	key := normalizeSizeLabel(label)
	if rank, ok := r.ranks[key]; ok {
		return rank
	}
	if canonical, ok := r.aliases[key]; ok {
		if rank, ok := r.ranks[canonical]; ok {
			return rank
		}
		// Orphaned alias: resolves to a label the ordering table does not know.
	}
	return UnknownSizeRank
}

// SortSKUs orders SKUs for display and export: by collection, then by size
// rank, then by code. Unknown sizes sort after all canonical sizes within
// their collection.
func SortSKUs(skus []SKU, ranker *SizeRanker) {
	sort.SliceStable(skus, func(i, j int) bool {
		a, b := skus[i], skus[j]
		if a.CollectionID != b.CollectionID {
			return a.CollectionID.String() < b.CollectionID.String()
		}
		ra, rb := ranker.Rank(a.Size), ranker.Rank(b.Size)
		if ra != rb {
			return ra < rb
		}
		return a.Code < b.Code
	})
}

func normalizeSizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
