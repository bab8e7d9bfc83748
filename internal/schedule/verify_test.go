package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/otterholte/staff-scheduler/internal/schedulerr"
)

func TestVerifyInvariantsPanicsOnExceededCeiling(t *testing.T) {
	req := Request{Staff: []Staff{{ID: "s1", HMax: 10}}}
	stats := Statistics{HoursPerStaff: map[string]float64{"s1": 12}}

	assert.PanicsWithError(t, schedulerr.Internal(
		`post-solve verification failed: staff "s1" assigned 12.00 hours exceeds ceiling 10.00`,
	).Error(), func() {
		verifyInvariants(req, stats)
	})
}

func TestVerifyInvariantsAllowsWithinCeiling(t *testing.T) {
	req := Request{Staff: []Staff{{ID: "s1", HMax: 10}}}
	stats := Statistics{HoursPerStaff: map[string]float64{"s1": 10}}

	assert.NotPanics(t, func() {
		verifyInvariants(req, stats)
	})
}
