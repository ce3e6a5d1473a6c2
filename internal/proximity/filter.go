package proximity

import (
	"strings"

	"github.com/mwhydro/hydromap/internal/model"
)

// Criteria selects schemes for display and export.
type Criteria struct {
	// Statuses keeps schemes with one of these statuses. Empty keeps all.
	Statuses []model.Status
	// Query keeps schemes whose name contains it, ignoring case.
	Query string
}

// Empty reports whether the criteria select everything.
func (c Criteria) Empty() bool {
	return len(c.Statuses) == 0 && strings.TrimSpace(c.Query) == ""
}

// ParseCriteria builds criteria from raw status values and a query.
// Unknown statuses are rejected.
func ParseCriteria(statuses []string, query string) (Criteria, error) {
	c := Criteria{Query: strings.TrimSpace(query)}
	for _, raw := range statuses {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := model.ParseStatus(raw)
		if err != nil {
			return Criteria{}, err
		}
		c.Statuses = append(c.Statuses, s)
	}
	return c, nil
}

// Filter returns the schemes matching c, preserving input order.
func Filter(schemes []model.Scheme, c Criteria) []model.Scheme {
	allowed := make(map[model.Status]bool, len(c.Statuses))
	for _, s := range c.Statuses {
		allowed[s] = true
	}
	q := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]model.Scheme, 0, len(schemes))
	for _, s := range schemes {
		if len(allowed) > 0 && !allowed[s.Status] {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CountByStatus returns the number of schemes per status, with every known
// status present.
func CountByStatus(schemes []model.Scheme) map[model.Status]int {
	counts := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		counts[s] = 0
	}
	for _, s := range schemes {
		counts[s.Status]++
	}
	return counts
}
