package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citizenportal/internal/domains"
)

func TestContentTransitions(t *testing.T) {
	tests := []struct {
		from, to domains.Status
		ok       bool
	}{
		{domains.StatusDraft, domains.StatusPending, true},
		{domains.StatusDraft, domains.StatusPublished, true},
		{domains.StatusPending, domains.StatusPublished, true},
		{domains.StatusPending, domains.StatusDraft, true},
		{domains.StatusPublished, domains.StatusPublished, true},
		{domains.StatusDraft, domains.StatusDraft, true},
		{domains.StatusPublished, domains.StatusDraft, false},
		{domains.StatusPublished, domains.StatusPending, false},
		{domains.Status("archived"), domains.Status("archived"), false},
		{domains.StatusDraft, domains.Status("archived"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, CanTransition(tt.from, tt.to))
			err := Transition(tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	s, err := InitialStatus("")
	require.NoError(t, err)
	assert.Equal(t, domains.StatusDraft, s)

	s, err = InitialStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, domains.StatusPending, s)

	_, err = InitialStatus("published")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = InitialStatus("live")
	assert.Error(t, err)
}

func TestTicketTransitions(t *testing.T) {
	assert.True(t, CanTransitionTicket(domains.TicketNew, domains.TicketPending))
	assert.True(t, CanTransitionTicket(domains.TicketNew, domains.TicketResolved))
	assert.True(t, CanTransitionTicket(domains.TicketPending, domains.TicketResolved))
	assert.True(t, CanTransitionTicket(domains.TicketResolved, domains.TicketResolved))
	assert.False(t, CanTransitionTicket(domains.TicketPending, domains.TicketNew))
	assert.False(t, CanTransitionTicket(domains.TicketResolved, domains.TicketPending))
	assert.ErrorIs(t, TransitionTicket(domains.TicketResolved, domains.TicketNew), ErrInvalidTransition)
}
