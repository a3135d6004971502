package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"citizenportal/internal/domains"
)

func names(items []domains.ServiceEntity) []string {
	out := make([]string, 0, len(items))
	for _, e := range items {
		out = append(out, e.Name)
	}
	return out
}

func fixtures() []domains.ServiceEntity {
	return []domains.ServiceEntity{
		{Name: "Old Age Pension", Category: "Welfare", Department: "Social Justice"},
		{Name: "Widow Pension", Category: "welfare", Department: "Women and Child"},
		{Name: "Birth Certificate", Category: "Civil", Department: "Municipality",
			Documents: []domains.Document{{Name: "Hospital record", ApplicationType: domains.AppTypeNew}}},
		{Name: "Caste Certificate", Category: "Civil", Department: "Revenue",
			ProcessSteps: []domains.ProcessStep{{Title: "Apply", ApplicationType: domains.AppTypeLost}}},
	}
}

func TestFilterByNameCaseInsensitiveSubstring(t *testing.T) {
	got := FilterByName(fixtures(), "PENSION", entityName)
	assert.Equal(t, []string{"Old Age Pension", "Widow Pension"}, names(got))

	got = FilterByName(fixtures(), "cert", entityName)
	assert.Equal(t, []string{"Birth Certificate", "Caste Certificate"}, names(got))

	assert.Empty(t, FilterByName(fixtures(), "passport", entityName))
}

func TestFilterByNameBlankQueryReturnsAll(t *testing.T) {
	assert.Len(t, FilterByName(fixtures(), "   ", entityName), 4)
	assert.Len(t, FilterByName(fixtures(), "", entityName), 4)
}

func TestPublicFilters(t *testing.T) {
	got := Public(fixtures(), domains.PublicQuery{Category: "WELFARE"})
	assert.Equal(t, []string{"Old Age Pension", "Widow Pension"}, names(got))

	got = Public(fixtures(), domains.PublicQuery{Query: "certificate", Department: "revenue"})
	assert.Equal(t, []string{"Caste Certificate"}, names(got))

	got = Public(fixtures(), domains.PublicQuery{ApplicationType: domains.AppTypeNew})
	assert.Equal(t, []string{"Birth Certificate"}, names(got))
}

func TestPublicApplicationTypeUntaggedRowsServeEveryType(t *testing.T) {
	items := append(fixtures(),
		domains.ServiceEntity{Name: "Income Certificate",
			Documents: []domains.Document{{Name: "Salary slip"}}},
		domains.ServiceEntity{Name: "Domicile Certificate",
			ProcessSteps: []domains.ProcessStep{{Title: "Apply"}, {Title: "Collect", ApplicationType: domains.AppTypeNew}}},
	)

	got := Public(items, domains.PublicQuery{ApplicationType: domains.AppTypeLost})
	assert.Equal(t, []string{"Caste Certificate", "Income Certificate"}, names(got))

	got = Public(items, domains.PublicQuery{ApplicationType: "  " + domains.AppTypeNew + " "})
	assert.Equal(t, []string{"Birth Certificate", "Income Certificate", "Domicile Certificate"}, names(got))

	assert.Len(t, Public(items, domains.PublicQuery{ApplicationType: "   "}), len(items))
}
