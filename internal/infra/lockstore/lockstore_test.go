package lockstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	key := Key(42, date, "10:30")

	assert.Equal(t, "slotlock:42:2026-09-02:10:30", key)
}

func TestKey_DistinctSlotsGetDistinctKeys(t *testing.T) {
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	nextDay := date.AddDate(0, 0, 1)

	assert.NotEqual(t, Key(1, date, "10:00"), Key(1, date, "10:30"))
	assert.NotEqual(t, Key(1, date, "10:00"), Key(2, date, "10:00"))
	assert.NotEqual(t, Key(1, date, "10:00"), Key(1, nextDay, "10:00"))
}
