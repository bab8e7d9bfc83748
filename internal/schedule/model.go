package schedule

import (
	"math"

	"github.com/nextmv-io/sdk/mip"
	"github.com/nextmv-io/sdk/model"
)

// assignmentVar is the unified representation of one decision variable,
// whichever regime produced it. A split-regime variable claims exactly one
// hour ([h, h+1)); a whole-shift variable claims the requirement's entire
// range. Constraints 1-7 (spec §4.2) are built once against this unified
// shape, per the regime-agnostic builder design note in SPEC_FULL.md §9.
type assignmentVar struct {
	Var         mip.Bool
	Staff       Staff
	Requirement ShiftRequirement
	StartHour   int
	EndHour     int
}

func (v assignmentVar) hours() float64 {
	return float64(v.EndHour - v.StartHour)
}

// splitKey identifies one x[s,r,h] split-regime variable. It implements
// model.Identifier so the variable family can be built with
// model.NewMultiMap, the same indexing helper the teacher's shift-scheduling
// and order-fulfillment apps use for their x[assignment] variable families.
type splitKey struct {
	StaffID       string
	RequirementID string
	Hour          int
}

func (k splitKey) ID() string {
	return k.StaffID + "|" + k.RequirementID + "|" + itoa(k.Hour)
}

// wholeKey identifies one y[s,r] whole-shift variable.
type wholeKey struct {
	StaffID       string
	RequirementID string
}

func (k wholeKey) ID() string {
	return k.StaffID + "|" + k.RequirementID
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

// buildSplitVariables creates one x[s,r,h] Boolean per candidate pair and
// hour where some availability window of s covers h (spec §4.2, split
// regime).
func buildSplitVariables(m mip.Model, idx availabilityIndex, pairs []candidatePair) []assignmentVar {
	keys := make([]splitKey, 0)
	meta := make(map[splitKey]candidatePair)
	for _, p := range pairs {
		windows := idx.windowsFor(p.Staff.ID, p.Requirement.Weekday)
		for h := p.Requirement.StartHour; h < p.Requirement.EndHour; h++ {
			if !anyWindowCovers(windows, h) {
				continue
			}
			k := splitKey{StaffID: p.Staff.ID, RequirementID: p.Requirement.ID, Hour: h}
			keys = append(keys, k)
			meta[k] = p
		}
	}

	x := model.NewMultiMap(func(...splitKey) mip.Bool { return m.NewBool() }, keys)

	vars := make([]assignmentVar, 0, len(keys))
	for _, k := range keys {
		p := meta[k]
		vars = append(vars, assignmentVar{
			Var:         x.Get(k),
			Staff:       p.Staff,
			Requirement: p.Requirement,
			StartHour:   k.Hour,
			EndHour:     k.Hour + 1,
		})
	}
	return vars
}

// buildWholeShiftVariables creates one y[s,r] Boolean per candidate pair
// where a single availability window of s fully covers r's range (spec
// §4.2, whole-shift regime). Multiple partial windows are never combined.
func buildWholeShiftVariables(m mip.Model, idx availabilityIndex, pairs []candidatePair) []assignmentVar {
	keys := make([]wholeKey, 0)
	meta := make(map[wholeKey]candidatePair)
	for _, p := range pairs {
		windows := idx.windowsFor(p.Staff.ID, p.Requirement.Weekday)
		if !anyWindowFullyCovers(windows, p.Requirement.StartHour, p.Requirement.EndHour) {
			continue
		}
		k := wholeKey{StaffID: p.Staff.ID, RequirementID: p.Requirement.ID}
		keys = append(keys, k)
		meta[k] = p
	}

	y := model.NewMultiMap(func(...wholeKey) mip.Bool { return m.NewBool() }, keys)

	vars := make([]assignmentVar, 0, len(keys))
	for _, k := range keys {
		p := meta[k]
		vars = append(vars, assignmentVar{
			Var:         y.Get(k),
			Staff:       p.Staff,
			Requirement: p.Requirement,
			StartHour:   p.Requirement.StartHour,
			EndHour:     p.Requirement.EndHour,
		})
	}
	return vars
}

func anyWindowCovers(windows []AvailabilityWindow, h int) bool {
	for _, w := range windows {
		if w.Covers(h) {
			return true
		}
	}
	return false
}

func anyWindowFullyCovers(windows []AvailabilityWindow, start, end int) bool {
	for _, w := range windows {
		if w.FullyCovers(start, end) {
			return true
		}
	}
	return false
}

// builtModel is everything the solver driver and result synthesizer need
// after constraint emission: the model itself and the variable handles
// keyed the way synthesis wants to read them back.
type builtModel struct {
	Model        mip.Model
	Assignments  []assignmentVar
	CoverageVars map[string]map[int]mip.Float // requirement id -> hour -> cov[r,h]
	HoursVars    map[string]mip.Float         // staff id -> hours[s]
}

// buildModel runs the pre-filter and model builder stages and returns a
// model ready for the solver driver.
func buildModel(req Request) builtModel {
	idx := buildAvailabilityIndex(req.Availability)
	pairs := candidatePairs(req, idx)

	m := mip.NewModel()
	m.Objective().SetMaximize()

	var vars []assignmentVar
	if req.Constraints.AllowSplitShifts {
		vars = buildSplitVariables(m, idx, pairs)
	} else {
		vars = buildWholeShiftVariables(m, idx, pairs)
	}

	// Index variables by (requirement, hour) for coverage/gap/max-staff
	// constraints, and by (staff, weekday, hour) for the no-double-booking
	// constraint.
	byReqHour := map[string]map[int][]assignmentVar{}
	byStaffDayHour := map[string]map[int]map[int][]assignmentVar{}
	byStaff := map[string][]assignmentVar{}

	for _, v := range vars {
		for h := v.StartHour; h < v.EndHour; h++ {
			if byReqHour[v.Requirement.ID] == nil {
				byReqHour[v.Requirement.ID] = map[int][]assignmentVar{}
			}
			byReqHour[v.Requirement.ID][h] = append(byReqHour[v.Requirement.ID][h], v)

			if byStaffDayHour[v.Staff.ID] == nil {
				byStaffDayHour[v.Staff.ID] = map[int]map[int][]assignmentVar{}
			}
			if byStaffDayHour[v.Staff.ID][v.Requirement.Weekday] == nil {
				byStaffDayHour[v.Staff.ID][v.Requirement.Weekday] = map[int][]assignmentVar{}
			}
			byStaffDayHour[v.Staff.ID][v.Requirement.Weekday][h] = append(
				byStaffDayHour[v.Staff.ID][v.Requirement.Weekday][h], v)
		}
		byStaff[v.Staff.ID] = append(byStaff[v.Staff.ID], v)
	}

	// Constraints 1-3: per-hour coverage, max-staff cap, gap slack.
	coverageVars := map[string]map[int]mip.Float{}
	for _, r := range req.Requirements {
		coverageVars[r.ID] = map[int]mip.Float{}
		for h := r.StartHour; h < r.EndHour; h++ {
			covering := byReqHour[r.ID][h]

			covUB := math.Max(float64(len(covering)), float64(r.MinStaff))
			cov := m.NewFloat(0, covUB)
			coverageVars[r.ID][h] = cov

			covConstraint := m.NewConstraint(mip.Equal, 0)
			covConstraint.NewTerm(1, cov)
			for _, v := range covering {
				covConstraint.NewTerm(-1, v.Var)
			}

			if r.MaxStaff > 0 {
				maxConstraint := m.NewConstraint(mip.LessThanOrEqual, float64(r.MaxStaff))
				maxConstraint.NewTerm(1, cov)
			}

			gapUB := math.Max(float64(r.MinStaff), 1)
			gap := m.NewFloat(0, gapUB)
			gapConstraint := m.NewConstraint(mip.GreaterThanOrEqual, float64(r.MinStaff))
			gapConstraint.NewTerm(1, cov)
			gapConstraint.NewTerm(1, gap)

			// Gap weight (-1000) dominates any single-hour hours reward
			// (+10) by an order of magnitude so the solver never trades
			// measurable coverage for raw hours (spec §4.2 rationale).
			m.Objective().NewTerm(-1000, gap)
		}
	}

	// Constraint 4: no double-booking.
	for _, byDay := range byStaffDayHour {
		for _, byHour := range byDay {
			for _, covering := range byHour {
				if len(covering) < 2 {
					continue
				}
				c := m.NewConstraint(mip.LessThanOrEqual, 1.0)
				for _, v := range covering {
					c.NewTerm(1, v.Var)
				}
			}
		}
	}

	// Constraints 5-7: per-staff hour accumulator, hard ceiling, undertime
	// slack.
	requestCeiling := 0.0
	if req.Constraints.MaxHoursPerStaff != nil {
		requestCeiling = *req.Constraints.MaxHoursPerStaff
	}
	requestFloor := 0.0
	if req.Constraints.MinHoursPerStaff != nil {
		requestFloor = *req.Constraints.MinHoursPerStaff
	}

	hoursVars := map[string]mip.Float{}
	for _, s := range req.Staff {
		ceiling := s.HMax
		if requestCeiling > 0 {
			ceiling = math.Min(ceiling, requestCeiling)
		}
		ceiling = math.Min(ceiling, 168)

		hours := m.NewFloat(0, ceiling)
		hoursVars[s.ID] = hours

		hoursConstraint := m.NewConstraint(mip.Equal, 0)
		hoursConstraint.NewTerm(1, hours)
		for _, v := range byStaff[s.ID] {
			hoursConstraint.NewTerm(-v.hours(), v.Var)
		}

		m.Objective().NewTerm(10, hours)

		floor := math.Max(s.HMin, requestFloor)
		if floor > 0 {
			under := m.NewFloat(0, floor)
			underConstraint := m.NewConstraint(mip.GreaterThanOrEqual, floor)
			underConstraint.NewTerm(1, hours)
			underConstraint.NewTerm(1, under)
			m.Objective().NewTerm(-5, under)
		}
	}

	return builtModel{
		Model:        m,
		Assignments:  vars,
		CoverageVars: coverageVars,
		HoursVars:    hoursVars,
	}
}
