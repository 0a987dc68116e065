package testutil

import (
	"time"

	"github.com/light-bringer/staysearch-service/internal/pkg/clock"
)

// Now is the fixed instant most tests run at.
var Now = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

// NewMockClock creates a mock clock fixed at Now.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(Now)
}
