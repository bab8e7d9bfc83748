package schedule

import (
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/otterholte/staff-scheduler/internal/schedulerr"
)

// SolverWorkers documents the parallel worker count the spec calls for
// (§4.3). The HiGHS binding surfaced through github.com/nextmv-io/sdk/mip in
// this pack does not expose a thread-count field on mip.SolveOptions in any
// example we could ground this on, so the driver requests the engine's own
// default parallelism instead of forcing it; see SPEC_FULL.md Open
// Questions.
const SolverWorkers = 8

// minSolveDuration is the wall-clock floor the spec requires regardless of
// what the request asks for.
const minSolveDuration = 1 * time.Second

func solveDuration(requestedSeconds float64) time.Duration {
	d := time.Duration(requestedSeconds * float64(time.Second))
	if d < minSolveDuration {
		return minSolveDuration
	}
	return d
}

// solverResult is the raw solver outcome the result synthesizer consumes.
type solverResult struct {
	Solution mip.Solution
	Duration time.Duration
}

// runSolver invokes the HiGHS MIP backend with the request's wall-clock
// budget and returns the raw solution, or a no-feasible-schedule error if
// the terminal status was neither optimal nor feasible (spec §4.3).
func runSolver(built builtModel, solveSeconds float64) (solverResult, error) {
	solver, err := mip.NewSolver(mip.Highs, built.Model)
	if err != nil {
		return solverResult{}, schedulerr.Wrap(err, schedulerr.CodeInternal, "failed to construct solver")
	}

	opts := mip.SolveOptions{}
	opts.Duration = solveDuration(solveSeconds)
	opts.Verbosity = mip.Off

	solution, err := solver.Solve(opts)
	if err != nil {
		return solverResult{}, schedulerr.Wrap(err, schedulerr.CodeInternal, "solver invocation failed")
	}

	if solution == nil || !solution.HasValues() {
		return solverResult{}, schedulerr.NoFeasibleSchedule("solver produced no values")
	}
	if !solution.IsOptimal() && !solution.IsSubOptimal() {
		return solverResult{}, schedulerr.NoFeasibleSchedule("terminal status was neither optimal nor feasible")
	}

	return solverResult{Solution: solution, Duration: solution.RunTime()}, nil
}
