package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/otterholte/staff-scheduler/internal/logging"
	"github.com/otterholte/staff-scheduler/internal/schedulerr"
)

const defaultSolveSeconds = 10.0

// Solve runs the full pipeline — pre-filter, model builder, solver driver,
// result synthesizer — over a fully-validated request and returns a result
// list of length 0 (infeasible) or 1 (spec §6). ctx is checked once, just
// before the solver runs; a cancellation after that point does not
// interrupt the solver, which is bounded only by its wall-clock budget. Solve
// carries no goroutines of its own (spec §5).
func Solve(ctx context.Context, req Request) ([]Result, error) {
	logger := logging.NewSolveLogger()
	start := time.Now()
	logger.Start(len(req.Staff), len(req.Requirements), req.Constraints.AllowSplitShifts)

	built := buildModel(req)

	seconds := req.Constraints.SolveSeconds
	if seconds <= 0 {
		seconds = defaultSolveSeconds
	}

	sr, err := runSolverCtx(ctx, built, seconds)
	if err != nil {
		logger.Infeasible(err.Error())
		if schedulerr.Is(err, schedulerr.CodeNoFeasibleSolution) {
			return []Result{}, err
		}
		return nil, err
	}

	result, err := synthesizeWithRecover(req, built, sr.Solution)
	if err != nil {
		logger.InvariantViolation(err.Error())
		return nil, err
	}

	logger.Finish(time.Since(start), solutionStatus(sr), result.Statistics.CoveragePercentage)
	return []Result{result}, nil
}

// runSolverCtx returns a no-feasible-schedule error without running the
// solver when ctx is already canceled; otherwise it runs the solver, which
// does not observe ctx.
func runSolverCtx(ctx context.Context, built builtModel, seconds float64) (solverResult, error) {
	if err := ctx.Err(); err != nil {
		return solverResult{}, schedulerr.Wrap(err, schedulerr.CodeNoFeasibleSolution, "solve canceled before the solver ran")
	}
	return runSolver(built, seconds)
}

func solutionStatus(sr solverResult) string {
	if sr.Solution == nil {
		return "unknown"
	}
	if sr.Solution.IsOptimal() {
		return "optimal"
	}
	return "feasible"
}

// synthesizeWithRecover runs the result synthesizer and post-solve
// verification, converting the verification panic (spec §4.5) into a plain
// error so Solve never panics across its own package boundary.
func synthesizeWithRecover(req Request, built builtModel, sol mip.Solution) (result Result, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if appErr, ok := r.(*schedulerr.AppError); ok {
			err = appErr
			return
		}
		err = schedulerr.Internal(fmt.Sprintf("panic during result synthesis: %v", r))
	}()

	result = synthesize(req, built, sol)
	verifyInvariants(req, result.Statistics)
	return result, nil
}

// synthesize runs the shift extraction, gap detection, and statistics
// stages of the result synthesizer (spec §4.4).
func synthesize(req Request, built builtModel, sol mip.Solution) Result {
	shifts := extractShifts(req, built, sol)
	gaps := detectGaps(req, built, sol)
	stats := computeStatistics(req, built, sol, gaps)
	warnings := computeWarnings(req, stats)

	return Result{
		Schedule:   shifts,
		Gaps:       gaps,
		Warnings:   warnings,
		Statistics: stats,
	}
}
