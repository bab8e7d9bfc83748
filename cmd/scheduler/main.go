// Command scheduler is a thin stdin/stdout CLI over the schedule package,
// standing in for the HTTP transport collaborator the core itself does not
// implement (spec §1, §6).
package main

import (
	"context"
	"log"
	"time"

	"github.com/nextmv-io/sdk"
	"github.com/nextmv-io/sdk/mip"
	"github.com/nextmv-io/sdk/run"
	"github.com/nextmv-io/sdk/run/schema"
	"github.com/nextmv-io/sdk/run/statistics"

	"github.com/otterholte/staff-scheduler/internal/schedule"
	"github.com/otterholte/staff-scheduler/internal/schedulerr"
)

func main() {
	err := run.CLI(solver).Run(context.Background())
	if err != nil {
		log.Fatal(err)
	}
}

// options carries CLI-level solver overrides, independent of the
// per-request Constraints.SolveSeconds field a request body may also set.
// A request-level value, when present, takes priority (see solver below).
type options struct {
	Solve mip.SolveOptions `json:"solve,omitempty"`
}

func solver(ctx context.Context, input requestDTO, opts options) (schema.Output, error) {
	req, err := input.toRequest()
	if err != nil {
		return schema.Output{}, err
	}

	if req.Constraints.SolveSeconds <= 0 && opts.Solve.Duration > 0 {
		req.Constraints.SolveSeconds = opts.Solve.Duration.Seconds()
	}

	start := time.Now()
	results, err := schedule.Solve(ctx, req)
	if err != nil && !schedulerr.Is(err, schedulerr.CodeNoFeasibleSolution) {
		return schema.Output{}, err
	}

	return format(results, time.Since(start)), nil
}

// format assembles the CLI's schema.Output envelope around the pipeline's
// result list: zero solutions when the request was infeasible, one when it
// solved, matching spec §6.
func format(results []schedule.Result, elapsed time.Duration) schema.Output {
	o := schema.Output{}
	o.Version = schema.Version{Sdk: sdk.VERSION}

	stats := statistics.NewStatistics()
	result := statistics.Result{}
	run := statistics.Run{}

	d := round(elapsed.Seconds())
	run.Duration = &d
	result.Duration = &d

	for _, r := range results {
		o.Solutions = append(o.Solutions, fromResult(r))
	}

	stats.Result = &result
	stats.Run = &run
	o.Statistics = stats

	return o
}

func round(f float64) float64 {
	return float64(int64(f*1e6+0.5)) / 1e6
}
