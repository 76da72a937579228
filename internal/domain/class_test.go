package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClass_IsFull(t *testing.T) {
	c := &Class{Capacity: 2}

	c.Enrolled = 0
	assert.False(t, c.IsFull())

	c.Enrolled = 1
	assert.False(t, c.IsFull())

	c.Enrolled = 2
	assert.True(t, c.IsFull())
}

func TestClass_SessionStart(t *testing.T) {
	c := &Class{Schedule: Schedule{Day: "wednesday", StartTime: "09:30", DurationMinutes: 60}}

	start, err := c.SessionStart("2025-06-18")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 18, 9, 30, 0, 0, time.UTC), start)

	_, err = c.SessionStart("18/06/2025")
	assert.Error(t, err)

	c.Schedule.StartTime = "soonish"
	_, err = c.SessionStart("2025-06-18")
	assert.Error(t, err)
}

func TestValidWeekday(t *testing.T) {
	assert.True(t, ValidWeekday("monday"))
	assert.True(t, ValidWeekday("sunday"))
	assert.False(t, ValidWeekday("Monday"))
	assert.False(t, ValidWeekday("someday"))
}

func TestBookingStatus_HoldsSeat(t *testing.T) {
	assert.True(t, BookingStatusPending.HoldsSeat())
	assert.True(t, BookingStatusConfirmed.HoldsSeat())
	assert.False(t, BookingStatusCompleted.HoldsSeat())
	assert.False(t, BookingStatusCancelled.HoldsSeat())
	assert.False(t, BookingStatusNoShow.HoldsSeat())
}
