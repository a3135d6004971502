package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlow(allowJump bool) Flow {
	return NewFlow(allowJump,
		Step{Key: "process-steps", Title: "Process", Collection: "process_steps"},
		Step{Key: "documents", Title: "Documents", Collection: "documents"},
		Step{Key: "contacts", Title: "Contacts", Collection: "contacts"},
		Step{Key: "publish", Title: "Publish"},
	)
}

func TestCursorLinearNavigation(t *testing.T) {
	c := testFlow(false).CursorAt("")
	assert.Equal(t, "process-steps", c.Current().Key)
	assert.ErrorIs(t, c.Back(), ErrFirstStep)

	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	assert.Equal(t, "publish", c.Current().Key)
	assert.ErrorIs(t, c.Next(), ErrLastStep)

	require.NoError(t, c.Back())
	assert.Equal(t, "contacts", c.Current().Key)
	prev, ok := c.Prev()
	require.True(t, ok)
	assert.Equal(t, "documents", prev.Key)
	next, ok := c.Following()
	require.True(t, ok)
	assert.Equal(t, "publish", next.Key)
}

func TestCursorJump(t *testing.T) {
	tests := []struct {
		name      string
		allowJump bool
		from      string
		to        string
		wantErr   error
	}{
		{name: "jump allowed", allowJump: true, from: "process-steps", to: "publish"},
		{name: "linear next", allowJump: false, from: "process-steps", to: "documents"},
		{name: "linear back", allowJump: false, from: "contacts", to: "documents"},
		{name: "linear stay", allowJump: false, from: "contacts", to: "contacts"},
		{name: "linear skip", allowJump: false, from: "process-steps", to: "contacts", wantErr: ErrJumpNotAllowed},
		{name: "unknown", allowJump: true, from: "process-steps", to: "nope", wantErr: ErrUnknownStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testFlow(tt.allowJump).CursorAt(tt.from)
			err := c.JumpTo(tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, c.Current().Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, c.Current().Key)
		})
	}
}

func TestFlowLookups(t *testing.T) {
	f := testFlow(false)
	assert.Equal(t, 4, f.Len())

	s, ok := f.StepFor("documents")
	require.True(t, ok)
	assert.Equal(t, "documents", s.Key)
	_, ok = f.StepFor("")
	assert.False(t, ok)

	publish, ok := f.Step("publish")
	require.True(t, ok)
	assert.True(t, publish.EditsFields())
	assert.Equal(t, 0, publish.RequiredRows())
	assert.Equal(t, 1, f.Steps()[0].RequiredRows())
}

func TestRowsKeepLastRow(t *testing.T) {
	rows := NewRows(1, []string{"a"})
	assert.ErrorIs(t, rows.Remove(0), ErrLastRow)
	assert.Equal(t, []string{"a"}, rows.Items())

	rows.Add("b")
	rows.Add("c")
	require.NoError(t, rows.Remove(1))
	assert.Equal(t, []string{"a", "c"}, rows.Items())

	require.NoError(t, rows.Edit(1, "z"))
	assert.Equal(t, []string{"a", "z"}, rows.Items())

	require.NoError(t, rows.Remove(0))
	assert.ErrorIs(t, rows.Remove(0), ErrLastRow)
	assert.Equal(t, []string{"z"}, rows.Items())
}

func TestRowsIndexChecks(t *testing.T) {
	rows := NewRows[int](0, nil)
	assert.False(t, rows.Complete())
	assert.ErrorIs(t, rows.Remove(0), ErrRowOutOfRange)
	assert.ErrorIs(t, rows.Edit(-1, 3), ErrRowOutOfRange)

	rows.Add(7)
	assert.True(t, rows.Complete())
	assert.Equal(t, 1, rows.Len())
}

func TestRowsDoNotAliasInput(t *testing.T) {
	in := []int{1, 2}
	rows := NewRows(1, in)
	require.NoError(t, rows.Edit(0, 9))
	assert.Equal(t, 1, in[0])
}
