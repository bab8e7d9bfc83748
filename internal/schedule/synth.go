package schedule

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/nextmv-io/sdk/mip"
)

// pairKey groups assignment variables by (staff, requirement) ahead of
// contiguous-run folding.
type pairKey struct {
	StaffID       string
	RequirementID string
}

// extractShifts reads the solved assignment variables and emits one
// ScheduledShift per maximal contiguous run of assigned hours for each
// (staff, requirement) pair (spec §4.4). In the whole-shift regime every
// pair yields exactly one run, since its single variable already claims the
// requirement's entire contiguous range.
func extractShifts(req Request, built builtModel, sol mip.Solution) []ScheduledShift {
	reqByID := make(map[string]ShiftRequirement, len(req.Requirements))
	for _, r := range req.Requirements {
		reqByID[r.ID] = r
	}

	hoursByPair := map[pairKey]map[int]bool{}
	for _, v := range built.Assignments {
		if sol.Value(v.Var) < 0.9 {
			continue
		}
		key := pairKey{StaffID: v.Staff.ID, RequirementID: v.Requirement.ID}
		if hoursByPair[key] == nil {
			hoursByPair[key] = map[int]bool{}
		}
		for h := v.StartHour; h < v.EndHour; h++ {
			hoursByPair[key][h] = true
		}
	}

	keys := make([]pairKey, 0, len(hoursByPair))
	for k := range hoursByPair {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].StaffID != keys[j].StaffID {
			return keys[i].StaffID < keys[j].StaffID
		}
		return keys[i].RequirementID < keys[j].RequirementID
	})

	shifts := make([]ScheduledShift, 0, len(keys))
	for _, key := range keys {
		hours := hoursByPair[key]
		sortedHours := make([]int, 0, len(hours))
		for h := range hours {
			sortedHours = append(sortedHours, h)
		}
		sort.Ints(sortedHours)

		r := reqByID[key.RequirementID]
		date := req.WeekStartDate.AddDate(0, 0, r.Weekday)

		for _, run := range foldContiguous(sortedHours) {
			shifts = append(shifts, ScheduledShift{
				ID:            uuid.New().String(),
				StaffID:       key.StaffID,
				RequirementID: key.RequirementID,
				Date:          date,
				StartHour:     run[0],
				EndHour:       run[1],
				LocationID:    r.LocationID,
			})
		}
	}
	return shifts
}

// foldContiguous groups sorted, distinct hours into maximal [start, end)
// runs of consecutive integers.
func foldContiguous(sortedHours []int) [][2]int {
	if len(sortedHours) == 0 {
		return nil
	}
	runs := make([][2]int, 0)
	i := 0
	for i < len(sortedHours) {
		start := sortedHours[i]
		end := start + 1
		j := i + 1
		for j < len(sortedHours) && sortedHours[j] == end {
			end++
			j++
		}
		runs = append(runs, [2]int{start, end})
		i = j
	}
	return runs
}

// detectGaps sweeps each requirement's hour range, opening an UncoveredGap
// when coverage falls below MinStaff and closing it on the reverse
// transition, then coalesces the result with mergeGaps (spec §4.4/§9).
func detectGaps(req Request, built builtModel, sol mip.Solution) []UncoveredGap {
	const epsilon = 1e-6

	var gaps []UncoveredGap
	for _, r := range req.Requirements {
		var open *UncoveredGap
		for h := r.StartHour; h < r.EndHour; h++ {
			cov := sol.Value(built.CoverageVars[r.ID][h])
			understaffed := cov+epsilon < float64(r.MinStaff)

			switch {
			case understaffed && open == nil:
				open = &UncoveredGap{
					RequirementID: r.ID,
					Weekday:       r.Weekday,
					StartHour:     h,
					EndHour:       h + 1,
					LocationID:    r.LocationID,
				}
			case understaffed && open != nil:
				open.EndHour = h + 1
			case !understaffed && open != nil:
				gaps = append(gaps, *open)
				open = nil
			}
		}
		if open != nil {
			gaps = append(gaps, *open)
		}
	}
	return mergeGaps(gaps)
}

// mergeGaps sorts by (requirement id, weekday, start hour) and coalesces
// gaps whose end equals the next one's start. Idempotent: re-merging an
// already-merged list returns it unchanged.
func mergeGaps(gaps []UncoveredGap) []UncoveredGap {
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].RequirementID != gaps[j].RequirementID {
			return gaps[i].RequirementID < gaps[j].RequirementID
		}
		if gaps[i].Weekday != gaps[j].Weekday {
			return gaps[i].Weekday < gaps[j].Weekday
		}
		return gaps[i].StartHour < gaps[j].StartHour
	})

	merged := make([]UncoveredGap, 0, len(gaps))
	for _, g := range gaps {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.RequirementID == g.RequirementID &&
				last.Weekday == g.Weekday &&
				last.EndHour == g.StartHour {
				last.EndHour = g.EndHour
				continue
			}
		}
		merged = append(merged, g)
	}
	return merged
}

// computeStatistics derives the coverage and hour totals from the solved
// model (spec §4.4).
func computeStatistics(req Request, built builtModel, sol mip.Solution, gaps []UncoveredGap) Statistics {
	requirementHasGap := make(map[string]bool, len(gaps))
	for _, g := range gaps {
		requirementHasGap[g.RequirementID] = true
	}

	var requiredHours, coveredHours float64
	filled := 0
	for _, r := range req.Requirements {
		requiredHours += float64(r.Duration()) * float64(r.MinStaff)
		for h := r.StartHour; h < r.EndHour; h++ {
			cov := sol.Value(built.CoverageVars[r.ID][h])
			coveredHours += math.Min(cov, float64(r.MinStaff))
		}
		if !requirementHasGap[r.ID] {
			filled++
		}
	}

	coveragePct := 100.0
	if requiredHours > 0 {
		coveragePct = 100 * coveredHours / requiredHours
	}

	hoursPerStaff := make(map[string]float64, len(req.Staff))
	var totalHours float64
	for _, s := range req.Staff {
		h := 0.0
		if v, ok := built.HoursVars[s.ID]; ok {
			h = sol.Value(v)
		}
		hoursPerStaff[s.ID] = h
		totalHours += h
	}

	return Statistics{
		RequiredHours:      requiredHours,
		CoveredHours:       coveredHours,
		CoveragePercentage: coveragePct,
		TotalShifts:        len(req.Requirements),
		FilledShifts:       filled,
		HoursPerStaff:      hoursPerStaff,
		TotalHours:         totalHours,
	}
}

// computeWarnings derives overtime/undertime warnings from the solved
// statistics (spec §4.4). Overtime should be unreachable given constraint 6
// (see verifyInvariants); it is still checked here defensively since
// warnings are informational and cheap to compute.
func computeWarnings(req Request, stats Statistics) []Warning {
	const epsilon = 1e-6

	var warnings []Warning
	for _, s := range req.Staff {
		h := stats.HoursPerStaff[s.ID]
		if h > s.HMax+epsilon {
			warnings = append(warnings, Warning{
				Kind:    WarningOvertime,
				StaffID: s.ID,
				Message: "assigned hours exceed weekly ceiling",
			})
		}
		if s.HMin > 0 && h < s.HMin-epsilon {
			warnings = append(warnings, Warning{
				Kind:    WarningUndertime,
				StaffID: s.ID,
				Message: "assigned hours fall short of weekly floor",
			})
		}
	}
	return warnings
}
