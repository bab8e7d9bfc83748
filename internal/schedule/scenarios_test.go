package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// assertInvariants checks the properties every solved result must hold
// regardless of scenario: no staff member works more than their ceiling, and
// no staff member is double-booked into overlapping hours on the same day.
func assertInvariants(t *testing.T, req Request, result Result) {
	t.Helper()

	byID := make(map[string]Staff, len(req.Staff))
	for _, s := range req.Staff {
		byID[s.ID] = s
	}

	const epsilon = 1e-6
	for staffID, hours := range result.Statistics.HoursPerStaff {
		require.LessOrEqualf(t, hours, byID[staffID].HMax+epsilon,
			"staff %s exceeded their hour ceiling", staffID)
	}

	type occupied struct {
		StaffID string
		Weekday int
		Hour    int
	}
	seen := map[occupied]bool{}
	for _, shift := range result.Schedule {
		for h := shift.StartHour; h < shift.EndHour; h++ {
			key := occupied{StaffID: shift.StaffID, Weekday: int(shift.Date.Weekday()), Hour: h}
			require.Falsef(t, seen[key], "staff %s double-booked at hour %d", shift.StaffID, h)
			seen[key] = true
		}
	}
}

// TestSolveFullyStaffedSingleRequirement covers the simplest whole-shift case:
// one requirement, one qualified and available staff member, full coverage
// expected with no gaps.
func TestSolveFullyStaffedSingleRequirement(t *testing.T) {
	req := Request{
		Staff: []Staff{
			{ID: "alice", HMax: 40, Qualifications: map[string]struct{}{"barista": {}}},
		},
		Availability: []AvailabilityWindow{
			{StaffID: "alice", Weekday: 0, StartHour: 7, EndHour: 16},
		},
		Requirements: []ShiftRequirement{
			{ID: "open-shift", LocationID: "cafe-1", Weekday: 0, StartHour: 8, EndHour: 16,
				Qualifications: map[string]struct{}{"barista": {}}, MinStaff: 1, MaxStaff: 1},
		},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assertInvariants(t, req, result)
	require.Empty(t, result.Gaps)
	require.InDelta(t, 100.0, result.Statistics.CoveragePercentage, 0.01)
	require.Len(t, result.Schedule, 1)
	require.Equal(t, "alice", result.Schedule[0].StaffID)
}

// TestSolveNoDoubleBookingAcrossOverlappingRequirements forces two
// requirements that overlap in time at different locations, with only one
// staff member qualified for both, and checks the solver never assigns that
// staff member to both at once.
func TestSolveNoDoubleBookingAcrossOverlappingRequirements(t *testing.T) {
	req := Request{
		Staff: []Staff{
			{ID: "alice", HMax: 40, Qualifications: map[string]struct{}{"barista": {}}},
		},
		Availability: []AvailabilityWindow{
			{StaffID: "alice", Weekday: 0, StartHour: 8, EndHour: 20},
		},
		Requirements: []ShiftRequirement{
			{ID: "front", LocationID: "cafe-1", Weekday: 0, StartHour: 9, EndHour: 13,
				Qualifications: map[string]struct{}{"barista": {}}, MinStaff: 1},
			{ID: "back", LocationID: "cafe-2", Weekday: 0, StartHour: 11, EndHour: 15,
				Qualifications: map[string]struct{}{"barista": {}}, MinStaff: 1},
		},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assertInvariants(t, req, results[0])
}

// TestSolveUnderstaffedRequirementProducesGap leaves a requirement with no
// qualified staff at all, so the solver must report a gap rather than
// inventing coverage.
func TestSolveUnderstaffedRequirementProducesGap(t *testing.T) {
	req := Request{
		Staff: []Staff{
			{ID: "bob", HMax: 40, Qualifications: map[string]struct{}{"cook": {}}},
		},
		Availability: []AvailabilityWindow{
			{StaffID: "bob", Weekday: 0, StartHour: 8, EndHour: 16},
		},
		Requirements: []ShiftRequirement{
			{ID: "nursing-shift", LocationID: "ward-1", Weekday: 0, StartHour: 8, EndHour: 16,
				Qualifications: map[string]struct{}{"nurse": {}}, MinStaff: 1},
		},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assertInvariants(t, req, result)
	require.NotEmpty(t, result.Gaps)
	require.Equal(t, "nursing-shift", result.Gaps[0].RequirementID)
	require.Equal(t, 8, result.Gaps[0].StartHour)
	require.Equal(t, 16, result.Gaps[0].EndHour)
	require.Less(t, result.Statistics.CoveragePercentage, 100.0)
}

// TestSolveSplitRegimeCoversWithPartialAvailability exercises the split-hour
// assignment regime: two staff, each available for only half of one
// requirement's range, together cover it in hourly pieces.
func TestSolveSplitRegimeCoversWithPartialAvailability(t *testing.T) {
	req := Request{
		Staff: []Staff{
			{ID: "morning", HMax: 40, Qualifications: map[string]struct{}{"clerk": {}}},
			{ID: "afternoon", HMax: 40, Qualifications: map[string]struct{}{"clerk": {}}},
		},
		Availability: []AvailabilityWindow{
			{StaffID: "morning", Weekday: 0, StartHour: 8, EndHour: 12},
			{StaffID: "afternoon", Weekday: 0, StartHour: 12, EndHour: 16},
		},
		Requirements: []ShiftRequirement{
			{ID: "desk", LocationID: "lobby", Weekday: 0, StartHour: 8, EndHour: 16,
				Qualifications: map[string]struct{}{"clerk": {}}, MinStaff: 1},
		},
		Constraints:   Constraints{AllowSplitShifts: true},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assertInvariants(t, req, result)
	require.Empty(t, result.Gaps)
	require.InDelta(t, 100.0, result.Statistics.CoveragePercentage, 0.01)
}

// TestSolveRespectsStaffHourCeiling checks that constraint 6's hard ceiling
// holds even when demand across the week would otherwise push a staff
// member's hours past it.
func TestSolveRespectsStaffHourCeiling(t *testing.T) {
	req := Request{
		Staff: []Staff{
			{ID: "alice", HMax: 8, Qualifications: map[string]struct{}{"guard": {}}},
		},
		Availability: []AvailabilityWindow{
			{StaffID: "alice", Weekday: 0, StartHour: 0, EndHour: 24},
			{StaffID: "alice", Weekday: 1, StartHour: 0, EndHour: 24},
		},
		Requirements: []ShiftRequirement{
			{ID: "mon", LocationID: "gate", Weekday: 0, StartHour: 8, EndHour: 16,
				Qualifications: map[string]struct{}{"guard": {}}, MinStaff: 1},
			{ID: "tue", LocationID: "gate", Weekday: 1, StartHour: 8, EndHour: 16,
				Qualifications: map[string]struct{}{"guard": {}}, MinStaff: 1},
		},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assertInvariants(t, req, result)
	require.LessOrEqual(t, result.Statistics.HoursPerStaff["alice"], 8.0)
}

// TestSolveCanceledContextReturnsNoFeasibleSchedule verifies the one external
// interrupt the core recognizes: a context canceled before the solver runs
// surfaces as a no-feasible-schedule error with an empty result slice, not a
// nil slice or a panic.
func TestSolveCanceledContextReturnsNoFeasibleSchedule(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := Request{
		Staff:         []Staff{{ID: "alice", HMax: 40}},
		WeekStartDate: mustParseDate(t, "2024-01-01"),
	}

	results, err := Solve(ctx, req)

	require.Error(t, err)
	require.NotNil(t, results)
	require.Empty(t, results)
}
