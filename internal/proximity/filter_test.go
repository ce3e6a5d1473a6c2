package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhydro/hydromap/internal/model"
)

func names(schemes []model.Scheme) []string {
	out := make([]string, len(schemes))
	for i, s := range schemes {
		out[i] = s.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	schemes := malawiSchemes()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "empty keeps all",
			criteria: Criteria{},
			want:     names(schemes),
		},
		{
			name:     "single status",
			criteria: Criteria{Statuses: []model.Status{model.StatusProposed}},
			want:     []string{"Fufu", "Kholombidzo"},
		},
		{
			name:     "multiple statuses",
			criteria: Criteria{Statuses: []model.Status{model.StatusPlanned, model.StatusUnderConstruction}},
			want:     []string{"Mpatamanga", "Wovwe"},
		},
		{
			name:     "name query ignores case",
			criteria: Criteria{Query: "NKULA"},
			want:     []string{"Nkula A", "Nkula B"},
		},
		{
			name:     "status and query",
			criteria: Criteria{Statuses: []model.Status{model.StatusOperational}, Query: "ka"},
			want:     []string{"Kapichira"},
		},
		{
			name:     "no match",
			criteria: Criteria{Query: "zambezi"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(schemes, tt.criteria)))
		})
	}
}

func TestParseCriteria(t *testing.T) {
	c, err := ParseCriteria([]string{"planned", "", "under construction"}, "  nk ")
	require.NoError(t, err)
	assert.Equal(t, []model.Status{model.StatusPlanned, model.StatusUnderConstruction}, c.Statuses)
	assert.Equal(t, "nk", c.Query)
	assert.False(t, c.Empty())

	_, err = ParseCriteria([]string{"retired"}, "")
	require.Error(t, err)

	c, err = ParseCriteria(nil, " ")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(malawiSchemes())
	assert.Len(t, counts, len(model.Statuses))
	assert.Equal(t, 4, counts[model.StatusOperational])
	assert.Equal(t, 2, counts[model.StatusProposed])
	assert.Equal(t, 0, counts[model.StatusDecommissioned])
}
