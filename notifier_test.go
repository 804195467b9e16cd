package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierSchedule(t *testing.T) {
	n := NewNotifier(nil, NotifierConfig{})

	require.NoError(t, n.Schedule("user-1", "09:00"))
	assert.Len(t, n.jobs, 1)

	// Rescheduling the same user replaces the job instead of stacking one.
	firstID := n.jobs["user-1"]
	require.NoError(t, n.Schedule("user-1", "18:30"))
	assert.Len(t, n.jobs, 1)
	assert.NotEqual(t, firstID, n.jobs["user-1"])

	require.NoError(t, n.Schedule("user-2", "07:05"))
	assert.Len(t, n.jobs, 2)
}

func TestNotifierScheduleInvalidTime(t *testing.T) {
	n := NewNotifier(nil, NotifierConfig{})

	tests := []string{"", "nine", "24:00", "12:60", "-1:30"}
	for _, notificationTime := range tests {
		t.Run(notificationTime, func(t *testing.T) {
			err := n.Schedule("user-1", notificationTime)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid notification time")
		})
	}
	assert.Empty(t, n.jobs)
}

func TestNotifierUnschedule(t *testing.T) {
	n := NewNotifier(nil, NotifierConfig{})

	require.NoError(t, n.Schedule("user-1", "09:00"))
	n.Unschedule("user-1")
	assert.Empty(t, n.jobs)

	// Unscheduling an unknown user is a no-op.
	n.Unschedule("nobody")
}
