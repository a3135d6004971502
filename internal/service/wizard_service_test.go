package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/domains"
)

func newDraftCertificate(t *testing.T, svc *ContentService) domains.ServiceEntity {
	t.Helper()
	created, err := svc.Create(context.Background(), domains.KindCertificate, domains.ServiceEntity{
		Name:    "Income Certificate",
		Summary: "Proof of annual family income",
	})
	require.NoError(t, err)
	return created
}

func requireParam(t *testing.T, err error, param string) {
	t.Helper()
	var verrs domains.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.NotEmpty(t, verrs)
	assert.Equal(t, param, verrs[0].Param)
}

func TestWizardStartsAtFirstStep(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	view, err := svc.WizardStep(ctx, domains.KindCertificate, cert.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "process-steps", view.Step.Key)
	assert.Equal(t, 0, view.Step.Index)
	assert.Equal(t, 4, view.Step.Total)
	assert.Equal(t, 1, view.Step.MinRows)
	assert.Equal(t, "documents", view.Step.Next)
	assert.Empty(t, view.Step.Prev)
	assert.True(t, view.AllowJump)
	assert.Nil(t, view.Fields)

	view, err = svc.WizardStep(ctx, domains.KindCertificate, cert.ID, "publish")
	require.NoError(t, err)
	require.NotNil(t, view.Fields)
	assert.Equal(t, "Income Certificate", view.Fields.Name)
	assert.Empty(t, view.Step.Next)

	_, err = svc.WizardStep(ctx, domains.KindCertificate, cert.ID, "payment")
	requireParam(t, err, "step")
}

func TestWizardSaveAdvancesAndKeepsStatus(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	saved, err := svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "process-steps",
		json.RawMessage(`[{"title":"Apply online"},{"title":"Verify at tehsil office"}]`), domains.ActionSave)
	require.NoError(t, err)
	assert.Equal(t, domains.StatusDraft, saved.Status)
	assert.Equal(t, "documents", saved.WizardStep)
	require.Len(t, saved.ProcessSteps, 2)
	assert.Equal(t, "Verify at tehsil office", saved.ProcessSteps[1].Title)

	view, err := svc.WizardStep(ctx, domains.KindCertificate, cert.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "documents", view.Step.Key)
	assert.Equal(t, "process-steps", view.Step.Prev)
}

func TestWizardRejectsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	_, err := svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "documents", json.RawMessage(`[]`), domains.ActionSave)
	requireParam(t, err, "documents")

	_, err = svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "documents", json.RawMessage(`{"name":1}`), domains.ActionSave)
	requireParam(t, err, "rows")

	_, err = svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "publish", json.RawMessage(`[]`), domains.ActionSave)
	requireParam(t, err, "step")
}

func TestWizardRowOpsNeverDropBelowOneRow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	saved, err := svc.ApplyRowOps(ctx, domains.KindCertificate, cert.ID, "documents", []domains.RowOp{
		{Op: "add", Row: json.RawMessage(`{"name":"Ration card"}`)},
		{Op: "add", Row: json.RawMessage(`{"name":"Salary slip"}`)},
		{Op: "edit", Index: 1, Row: json.RawMessage(`{"name":"Salary slip","mandatory":true}`)},
		{Op: "remove", Index: 0},
	}, domains.ActionSave)
	require.NoError(t, err)
	require.Len(t, saved.Documents, 1)
	assert.Equal(t, domains.Document{Name: "Salary slip", Mandatory: true}, saved.Documents[0])

	_, err = svc.ApplyRowOps(ctx, domains.KindCertificate, cert.ID, "documents", []domains.RowOp{
		{Op: "remove", Index: 0},
	}, domains.ActionSave)
	requireParam(t, err, "ops[0]")

	_, err = svc.ApplyRowOps(ctx, domains.KindCertificate, cert.ID, "documents", []domains.RowOp{
		{Op: "edit", Index: 3, Row: json.RawMessage(`{"name":"x"}`)},
	}, domains.ActionSave)
	requireParam(t, err, "ops[0].index")

	_, err = svc.ApplyRowOps(ctx, domains.KindCertificate, cert.ID, "documents", []domains.RowOp{
		{Op: "shuffle"},
	}, domains.ActionSave)
	requireParam(t, err, "ops[0].op")

	got, err := svc.Get(ctx, domains.KindCertificate, cert.ID)
	require.NoError(t, err)
	assert.Len(t, got.Documents, 1)
}

func TestWizardRowOpsOnEmptyCollectionNeedAnAdd(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	_, err := svc.ApplyRowOps(ctx, domains.KindCertificate, cert.ID, "contacts", nil, domains.ActionSave)
	requireParam(t, err, "rows")
}

func TestWizardPublishFromFieldsStep(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newContentService()
	cert := newDraftCertificate(t, svc)

	_, err := svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "process-steps",
		json.RawMessage(`[{"title":"Apply online"}]`), domains.ActionSave)
	require.NoError(t, err)
	_, err = svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "documents",
		json.RawMessage(`[{"name":"Aadhaar"}]`), domains.ActionSave)
	require.NoError(t, err)

	summary := "  Proof of income for scholarships  "
	_, err = svc.SaveStepFields(ctx, domains.KindCertificate, cert.ID, "publish", domains.ServiceFields{
		Summary: &summary,
	}, domains.ActionPublish)
	requireParam(t, err, "details.fee")

	published, err := svc.SaveStepFields(ctx, domains.KindCertificate, cert.ID, "publish", domains.ServiceFields{
		Summary: &summary,
		Details: map[string]string{"fee": "30", "processing_time": "7 days"},
	}, domains.ActionPublish)
	require.NoError(t, err)
	assert.Equal(t, domains.StatusPublished, published.Status)
	assert.Equal(t, "Proof of income for scholarships", published.Summary)
	assert.Equal(t, "publish", published.WizardStep)
	assert.Equal(t, 1, rec.published[domains.KindCertificate])

	_, err = svc.SaveStepFields(ctx, domains.KindCertificate, cert.ID, "documents", domains.ServiceFields{}, domains.ActionSave)
	requireParam(t, err, "step")
}

func TestWizardRejectsUnknownAction(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()
	cert := newDraftCertificate(t, svc)

	_, err := svc.ReplaceStepRows(ctx, domains.KindCertificate, cert.ID, "process-steps",
		json.RawMessage(`[{"title":"Apply online"}]`), "archive")
	requireParam(t, err, "action")
}

func TestLinearWizardMovesOneStepAtATime(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newContentService()

	dept, err := svc.Create(ctx, domains.KindContactDepartment, domains.ServiceEntity{
		Name:    "Revenue Department",
		Summary: "Land records and mutation",
	})
	require.NoError(t, err)

	view, err := svc.WizardStep(ctx, domains.KindContactDepartment, dept.ID, "")
	require.NoError(t, err)
	assert.False(t, view.AllowJump)
	assert.Equal(t, "contacts", view.Step.Key)

	saved, err := svc.ReplaceStepRows(ctx, domains.KindContactDepartment, dept.ID, "contacts",
		json.RawMessage(`[{"name":"R. Sharma","designation":"Tehsildar","application_type":"Renewal"}]`), domains.ActionSave)
	requireParam(t, err, "contacts[0].application_type")
	assert.Zero(t, saved.ID)

	saved, err = svc.ReplaceStepRows(ctx, domains.KindContactDepartment, dept.ID, "contacts",
		json.RawMessage(`[{"name":"R. Sharma","designation":"Tehsildar"}]`), domains.ActionPublish)
	require.NoError(t, err)
	assert.Equal(t, domains.StatusPublished, saved.Status)
	assert.Equal(t, "contacts", saved.WizardStep)

	flow, err := svc.Flow(domains.KindContactDepartment)
	require.NoError(t, err)
	assert.Equal(t, 2, flow.Len())
}

func TestWizardRowsRunFieldRules(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newContentService()
	dept, err := svc.Create(ctx, domains.KindContactDepartment, domains.ServiceEntity{
		Name:    "Revenue Department",
		Summary: "Land records and mutation",
	})
	require.NoError(t, err)

	_, err = svc.ReplaceStepRows(ctx, domains.KindContactDepartment, dept.ID, "contacts",
		json.RawMessage(`[{"name":"R. Sharma"},{"name":"A. Das","email":"not-an-email"}]`), domains.ActionSave)
	requireParam(t, err, "rows[1].email")

	_, err = svc.ReplaceStepRows(ctx, domains.KindContactDepartment, dept.ID, "contacts",
		json.RawMessage(`[{"name":"R. Sharma","email":"sharma@example.gov.in"}]`), domains.ActionSave)
	require.NoError(t, err)

	_, err = svc.ApplyRowOps(ctx, domains.KindContactDepartment, dept.ID, "contacts", []domains.RowOp{
		{Op: "add", Row: json.RawMessage(`{"name":"A. Das","email":"also-bad"}`)},
	}, domains.ActionSave)
	requireParam(t, err, "ops[0].row.email")

	_, err = svc.ApplyRowOps(ctx, domains.KindContactDepartment, dept.ID, "contacts", []domains.RowOp{
		{Op: "edit", Index: 0, Row: json.RawMessage(`{"name":"R. Sharma","email":"still bad"}`)},
	}, domains.ActionSave)
	requireParam(t, err, "ops[0].row.email")

	stored, err := st.GetService(ctx, domains.KindContactDepartment, dept.ID)
	require.NoError(t, err)
	require.Len(t, stored.Contacts, 1)
	assert.Equal(t, "sharma@example.gov.in", stored.Contacts[0].Email)
}
