package search

import (
	"strings"

	"citizenportal/internal/domains"
)

// FilterByName keeps items whose name contains q, ignoring case. A blank
// query keeps everything. Order is preserved.
func FilterByName[T any](items []T, q string, name func(T) string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || strings.Contains(strings.ToLower(name(it)), q) {
			out = append(out, it)
		}
	}
	return out
}

func entityName(e domains.ServiceEntity) string { return e.Name }

// Public applies the citizen-facing filters to an already published list.
func Public(items []domains.ServiceEntity, q domains.PublicQuery) []domains.ServiceEntity {
	out := FilterByName(items, q.Query, entityName)
	appType := strings.TrimSpace(q.ApplicationType)
	if q.Category == "" && q.Department == "" && appType == "" {
		return out
	}
	kept := out[:0]
	for _, e := range out {
		if q.Category != "" && !strings.EqualFold(e.Category, strings.TrimSpace(q.Category)) {
			continue
		}
		if q.Department != "" && !strings.EqualFold(e.Department, strings.TrimSpace(q.Department)) {
			continue
		}
		if appType != "" && !e.HasApplicationType(appType) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
