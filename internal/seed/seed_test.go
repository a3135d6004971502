package seed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/domains"
	"citizenportal/internal/service"
	"citizenportal/internal/storage/memory"
)

func TestBundledFixturesApply(t *testing.T) {
	ctx := context.Background()
	f, err := LoadFile("../../fixtures/seed.yaml")
	require.NoError(t, err)

	st := memory.New()
	content := service.NewContentService(st, nil)
	tickets := service.NewTicketService(st, nil)

	res, err := f.Apply(ctx, content, tickets)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 5, Published: 4, Tickets: 2}, res)

	public, err := content.ListPublished(ctx, domains.KindScheme, domains.PublicQuery{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Old Age Pension", public[0].Name)
	assert.Len(t, public[0].Eligibility, 2)

	drafts, err := content.List(ctx, domains.KindScheme, []domains.Status{domains.StatusDraft}, "")
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Scholarship for Girl Students", drafts[0].Name)

	lost, err := content.ListPublished(ctx, domains.KindCertificate, domains.PublicQuery{ApplicationType: domains.AppTypeLost})
	require.NoError(t, err)
	assert.Len(t, lost, 1)

	feedback, err := tickets.List(ctx, domains.TicketFeedback, nil)
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	require.NotNil(t, feedback[0].Rating)
	assert.Equal(t, 5, *feedback[0].Rating)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("content:\n  - kind: scheme\n    titel: typo\n"))
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Content)
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	content := service.NewContentService(st, nil)

	f := Fixtures{Content: []ContentFixture{
		{Kind: "scheme", Name: "Pension", Summary: "Monthly"},
		{Kind: "certificate", Publish: true, Name: "Income Certificate", Summary: "Proof of income"},
		{Kind: "scheme", Name: "Never reached", Summary: "x"},
	}}
	res, err := f.Apply(ctx, content, service.NewTicketService(st, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `publish content[1] "Income Certificate"`)

	var verrs domains.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, Result{Created: 2}, res)
}

func TestApplyUnknownKind(t *testing.T) {
	f := Fixtures{Content: []ContentFixture{{Kind: "festival", Name: "x", Summary: "y"}}}
	st := memory.New()
	_, err := f.Apply(context.Background(), service.NewContentService(st, nil), service.NewTicketService(st, nil))
	assert.ErrorContains(t, err, "content[0]")
}
