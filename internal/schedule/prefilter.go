package schedule

// staffDayKey indexes availability windows by staff and weekday.
type staffDayKey struct {
	StaffID string
	Weekday int
}

// availabilityIndex maps (staff, weekday) to that staff member's windows on
// that day. Built once per solve call, grounded on the teacher's own
// pre-computation pass (potentialAssignments/demands in the shift-scheduling
// app) that indexes availability before the model loop runs.
type availabilityIndex map[staffDayKey][]AvailabilityWindow

func buildAvailabilityIndex(windows []AvailabilityWindow) availabilityIndex {
	idx := make(availabilityIndex, len(windows))
	for _, w := range windows {
		key := staffDayKey{StaffID: w.StaffID, Weekday: w.Weekday}
		idx[key] = append(idx[key], w)
	}
	return idx
}

func (idx availabilityIndex) windowsFor(staffID string, weekday int) []AvailabilityWindow {
	return idx[staffDayKey{StaffID: staffID, Weekday: weekday}]
}

// hasAnyAvailability reports whether s has at least one window on r's
// weekday, without regard to hour overlap (the pre-filter's "any
// availability" half of the candidate test).
func (idx availabilityIndex) hasAnyAvailability(staffID string, weekday int) bool {
	return len(idx.windowsFor(staffID, weekday)) > 0
}

// candidatePair is a (staff, requirement) pair that has passed the
// qualification and any-availability pre-filter. Non-candidates contribute
// no decision variables.
type candidatePair struct {
	Staff       Staff
	Requirement ShiftRequirement
}

// candidatePairs computes every (staff, requirement) pair eligible for
// variable creation, per spec §4.1.
func candidatePairs(req Request, idx availabilityIndex) []candidatePair {
	pairs := make([]candidatePair, 0, len(req.Staff)*len(req.Requirements))
	for _, r := range req.Requirements {
		for _, s := range req.Staff {
			if !s.HasQualifications(r.Qualifications) {
				continue
			}
			if !idx.hasAnyAvailability(s.ID, r.Weekday) {
				continue
			}
			pairs = append(pairs, candidatePair{Staff: s, Requirement: r})
		}
	}
	return pairs
}
