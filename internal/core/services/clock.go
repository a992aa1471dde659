package services

import (
	"time"

	portssvc "github.com/comloan/loan_mgmt_app/internal/core/ports/services"
)

// systemClock reads the wall clock.
type systemClock struct{}

// NewSystemClock returns the production Clock.
func NewSystemClock() portssvc.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}
