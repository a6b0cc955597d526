package pokemon

import (
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// Query filters and paginates a roster.
// Filters apply in order: generation range, type AND-filter, name search.
// An unknown generation matches nothing.
func Query(members []CachedPokemon, table *GenerationTable, params ListParams) ListResult {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	filtered := members

	if params.Generation != 0 {
		var genRange GenerationRange
		ok := false
		if table != nil {
			genRange, ok = table.Range(params.Generation)
		}
		if !ok {
			filtered = nil
		} else {
			filtered = filter(filtered, func(p CachedPokemon) bool {
				return genRange.Contains(p.ID)
			})
		}
	}

	if types := normalizeTypes(params.Types); len(types) > 0 {
		filtered = filter(filtered, func(p CachedPokemon) bool {
			for _, t := range types {
				if !p.HasType(t) {
					return false
				}
			}
			return true
		})
	}

	if params.Search != "" {
		q := strings.ToLower(params.Search)
		filtered = filter(filtered, func(p CachedPokemon) bool {
			return strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.NameEn), q)
		})
	}

	total := len(filtered)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	data := []CachedPokemon{}
	if page <= totalPages {
		start := (page - 1) * limit
		end := start + min(limit, total-start)
		data = append(data, filtered[start:end]...)
	}

	return ListResult{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

func filter(members []CachedPokemon, keep func(CachedPokemon) bool) []CachedPokemon {
	out := make([]CachedPokemon, 0, len(members))
	for _, m := range members {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

func normalizeTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
