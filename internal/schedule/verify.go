package schedule

import (
	"fmt"

	"github.com/otterholte/staff-scheduler/internal/schedulerr"
)

// verifyInvariants asserts the one condition constraint 6 guarantees can
// never hold: a staff member's assigned hours exceeding their ceiling. Spec
// §4.5 treats this as an impossible state; reaching it here means the model
// builder has a defect, not that the request was bad, so it panics rather
// than returning a recoverable error. The panic is recovered at the single
// Solve call boundary (see solve.go) and turned into a plain error.
func verifyInvariants(req Request, stats Statistics) {
	const epsilon = 1e-6

	for _, s := range req.Staff {
		if stats.HoursPerStaff[s.ID] > s.HMax+epsilon {
			panic(schedulerr.Internal(fmt.Sprintf(
				"post-solve verification failed: staff %q assigned %.2f hours exceeds ceiling %.2f",
				s.ID, stats.HoursPerStaff[s.ID], s.HMax,
			)))
		}
	}
}
