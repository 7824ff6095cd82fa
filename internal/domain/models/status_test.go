package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitorStatusTransitions(t *testing.T) {
	cases := []struct {
		from    VisitorStatus
		to      VisitorStatus
		allowed bool
	}{
		{VisitorStatusPending, VisitorStatusApproved, true},
		{VisitorStatusPending, VisitorStatusDenied, true},
		{VisitorStatusPending, VisitorStatusCheckedIn, false},
		{VisitorStatusApproved, VisitorStatusCheckedIn, true},
		{VisitorStatusApproved, VisitorStatusDenied, false},
		{VisitorStatusCheckedIn, VisitorStatusExited, true},
		{VisitorStatusCheckedIn, VisitorStatusApproved, false},
		{VisitorStatusDenied, VisitorStatusApproved, false},
		{VisitorStatusExited, VisitorStatusCheckedIn, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestVisitorStatusTerminal(t *testing.T) {
	assert.True(t, VisitorStatusDenied.IsTerminal())
	assert.True(t, VisitorStatusExited.IsTerminal())
	assert.False(t, VisitorStatusPending.IsTerminal())
	assert.False(t, VisitorStatusApproved.IsTerminal())
	assert.False(t, VisitorStatusCheckedIn.IsTerminal())
}

func TestDeliveryStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryStatusPending, DeliveryStatusApproved, true},
		{DeliveryStatusPending, DeliveryStatusCancelled, true},
		{DeliveryStatusPending, DeliveryStatusCompleted, false},
		{DeliveryStatusApproved, DeliveryStatusCompleted, true},
		{DeliveryStatusApproved, DeliveryStatusCancelled, false},
		{DeliveryStatusCompleted, DeliveryStatusApproved, false},
		{DeliveryStatusCancelled, DeliveryStatusApproved, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestDeliveryStatusTerminal(t *testing.T) {
	assert.True(t, DeliveryStatusCompleted.IsTerminal())
	assert.True(t, DeliveryStatusCancelled.IsTerminal())
	assert.False(t, DeliveryStatusPending.IsTerminal())
	assert.False(t, DeliveryStatusApproved.IsTerminal())
}

func TestActiveStatusesExcludeTerminal(t *testing.T) {
	for _, s := range VisitorActiveStatuses() {
		assert.False(t, s.IsTerminal())
	}
	for _, s := range DeliveryActiveStatuses() {
		assert.False(t, s.IsTerminal())
	}
}

func TestStatusStringRecognition(t *testing.T) {
	assert.True(t, IsVisitorStatus("checked_in"))
	assert.False(t, IsVisitorStatus("completed"))
	assert.True(t, IsDeliveryStatus("completed"))
	assert.False(t, IsDeliveryStatus("checked_in"))
	assert.False(t, IsVisitorStatus(""))
}
