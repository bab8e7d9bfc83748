// Package main wires the scheduling core to a stdin/stdout CLI, standing in
// for the HTTP transport collaborator the core itself does not implement
// (spec §1).
package main

import (
	"time"

	"github.com/otterholte/staff-scheduler/internal/schedule"
)

// requestDTO is the wire shape of a solve request, matching spec §6's field
// list. It is deserialized by run.CLI and converted to schedule.Request
// before the core ever sees it.
type requestDTO struct {
	Staff          []staffDTO         `json:"staff"`
	Availability   []availabilityDTO  `json:"availability"`
	Requirements   []requirementDTO   `json:"requirements"`
	Locations      []locationDTO      `json:"locations"`
	Qualifications []qualificationDTO `json:"qualifications"`
	WeekStartDate  string             `json:"week_start_date"`
	Constraints    constraintsDTO     `json:"constraints"`
}

type staffDTO struct {
	ID             string   `json:"id"`
	MaxHours       float64  `json:"max_hours"`
	MinHours       float64  `json:"min_hours,omitempty"`
	Qualifications []string `json:"qualifications,omitempty"`
}

type availabilityDTO struct {
	StaffID     string `json:"staff_id"`
	Weekday     int    `json:"weekday"`
	StartHour   int    `json:"start_hour"`
	EndHour     int    `json:"end_hour"`
	IsPreferred bool   `json:"is_preferred,omitempty"`
}

type requirementDTO struct {
	ID             string   `json:"id"`
	LocationID     string   `json:"location_id"`
	Weekday        int      `json:"weekday"`
	StartHour      int      `json:"start_hour"`
	EndHour        int      `json:"end_hour"`
	Qualifications []string `json:"qualifications,omitempty"`
	MinStaff       int      `json:"min_staff"`
	MaxStaff       int      `json:"max_staff,omitempty"`
}

type locationDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type qualificationDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type constraintsDTO struct {
	MinHoursPerStaff   *float64 `json:"min_hours_per_staff,omitempty"`
	MaxHoursPerStaff   *float64 `json:"max_hours_per_staff,omitempty"`
	BalanceHours       bool     `json:"balance_hours,omitempty"`
	RespectPreferences bool     `json:"respect_preferences,omitempty"`
	LockedShiftIDs     []string `json:"locked_shift_ids,omitempty"`
	AllowSplitShifts   bool     `json:"allow_split_shifts,omitempty"`
	MinOverlapHours    *float64 `json:"min_overlap_hours,omitempty"`
	SolveSeconds       float64  `json:"solve_seconds,omitempty"`
	SolutionPoolSize   int      `json:"solution_pool_size,omitempty"`
}

func toQualificationSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// toRequest converts the wire DTO into the core's Request value. Malformed
// input (bad dates, inverted ranges) is the transport collaborator's
// responsibility per spec §7; this conversion assumes well-formed input
// except for the one thing a CLI demo reasonably guards: an unparsable
// week-start date, which would otherwise zero-value silently.
func (d requestDTO) toRequest() (schedule.Request, error) {
	weekStart, err := time.Parse("2006-01-02", d.WeekStartDate)
	if err != nil {
		return schedule.Request{}, err
	}

	staff := make([]schedule.Staff, len(d.Staff))
	for i, s := range d.Staff {
		staff[i] = schedule.Staff{
			ID:             s.ID,
			HMax:           s.MaxHours,
			HMin:           s.MinHours,
			Qualifications: toQualificationSet(s.Qualifications),
		}
	}

	availability := make([]schedule.AvailabilityWindow, len(d.Availability))
	for i, a := range d.Availability {
		availability[i] = schedule.AvailabilityWindow{
			StaffID:     a.StaffID,
			Weekday:     a.Weekday,
			StartHour:   a.StartHour,
			EndHour:     a.EndHour,
			IsPreferred: a.IsPreferred,
		}
	}

	requirements := make([]schedule.ShiftRequirement, len(d.Requirements))
	for i, r := range d.Requirements {
		requirements[i] = schedule.ShiftRequirement{
			ID:             r.ID,
			LocationID:     r.LocationID,
			Weekday:        r.Weekday,
			StartHour:      r.StartHour,
			EndHour:        r.EndHour,
			Qualifications: toQualificationSet(r.Qualifications),
			MinStaff:       r.MinStaff,
			MaxStaff:       r.MaxStaff,
		}
	}

	locations := make([]schedule.Location, len(d.Locations))
	for i, l := range d.Locations {
		locations[i] = schedule.Location{ID: l.ID, Name: l.Name}
	}

	qualifications := make([]schedule.Qualification, len(d.Qualifications))
	for i, q := range d.Qualifications {
		qualifications[i] = schedule.Qualification{ID: q.ID, Name: q.Name}
	}

	return schedule.Request{
		Staff:          staff,
		Availability:   availability,
		Requirements:   requirements,
		Locations:      locations,
		Qualifications: qualifications,
		WeekStartDate:  weekStart,
		Constraints: schedule.Constraints{
			MinHoursPerStaff:   d.Constraints.MinHoursPerStaff,
			MaxHoursPerStaff:   d.Constraints.MaxHoursPerStaff,
			BalanceHours:       d.Constraints.BalanceHours,
			RespectPreferences: d.Constraints.RespectPreferences,
			LockedShiftIDs:     d.Constraints.LockedShiftIDs,
			AllowSplitShifts:   d.Constraints.AllowSplitShifts,
			MinOverlapHours:    d.Constraints.MinOverlapHours,
			SolveSeconds:       d.Constraints.SolveSeconds,
			SolutionPoolSize:   d.Constraints.SolutionPoolSize,
		},
	}, nil
}

// solutionDTO is the wire shape of one synthesized schedule.
type solutionDTO struct {
	Schedule   []shiftDTO    `json:"schedule"`
	Gaps       []gapDTO      `json:"gaps"`
	Warnings   []warningDTO  `json:"warnings"`
	Statistics statisticsDTO `json:"statistics"`
}

type shiftDTO struct {
	ID            string `json:"id"`
	StaffID       string `json:"staff_id"`
	RequirementID string `json:"requirement_id"`
	Date          string `json:"date"`
	StartHour     int    `json:"start_hour"`
	EndHour       int    `json:"end_hour"`
	LocationID    string `json:"location_id"`
}

type gapDTO struct {
	RequirementID string `json:"requirement_id"`
	Weekday       int    `json:"weekday"`
	StartHour     int    `json:"start_hour"`
	EndHour       int    `json:"end_hour"`
	LocationID    string `json:"location_id"`
}

type warningDTO struct {
	Kind    string `json:"kind"`
	StaffID string `json:"staff_id,omitempty"`
	Message string `json:"message"`
}

type statisticsDTO struct {
	RequiredHours      float64            `json:"required_hours"`
	CoveredHours       float64            `json:"covered_hours"`
	CoveragePercentage float64            `json:"coverage_percentage"`
	TotalShifts        int                `json:"total_shifts"`
	FilledShifts       int                `json:"filled_shifts"`
	HoursPerStaff      map[string]float64 `json:"hours_per_staff"`
	TotalHours         float64            `json:"total_hours"`
}

func fromResult(r schedule.Result) solutionDTO {
	shifts := make([]shiftDTO, len(r.Schedule))
	for i, s := range r.Schedule {
		shifts[i] = shiftDTO{
			ID:            s.ID,
			StaffID:       s.StaffID,
			RequirementID: s.RequirementID,
			Date:          s.Date.Format("2006-01-02"),
			StartHour:     s.StartHour,
			EndHour:       s.EndHour,
			LocationID:    s.LocationID,
		}
	}

	gaps := make([]gapDTO, len(r.Gaps))
	for i, g := range r.Gaps {
		gaps[i] = gapDTO{
			RequirementID: g.RequirementID,
			Weekday:       g.Weekday,
			StartHour:     g.StartHour,
			EndHour:       g.EndHour,
			LocationID:    g.LocationID,
		}
	}

	warnings := make([]warningDTO, len(r.Warnings))
	for i, w := range r.Warnings {
		warnings[i] = warningDTO{Kind: string(w.Kind), StaffID: w.StaffID, Message: w.Message}
	}

	return solutionDTO{
		Schedule: shifts,
		Gaps:     gaps,
		Warnings: warnings,
		Statistics: statisticsDTO{
			RequiredHours:      r.Statistics.RequiredHours,
			CoveredHours:       r.Statistics.CoveredHours,
			CoveragePercentage: r.Statistics.CoveragePercentage,
			TotalShifts:        r.Statistics.TotalShifts,
			FilledShifts:       r.Statistics.FilledShifts,
			HoursPerStaff:      r.Statistics.HoursPerStaff,
			TotalHours:         r.Statistics.TotalHours,
		},
	}
}
