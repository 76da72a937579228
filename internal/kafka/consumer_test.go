package kafka

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEvent(t *testing.T) {
	event, err := decodeEvent([]byte(`{"type":"waitlist_slot_available","user_id":"user-9","class_id":4}`))

	assert.NoError(t, err)
	assert.Equal(t, "waitlist_slot_available", event.Type)
	assert.Equal(t, "user-9", event.UserID)
	assert.Equal(t, int64(4), event.ClassID)
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := decodeEvent([]byte(`not json`))

	assert.Error(t, err)
}
