package models

import "fmt"

// Phase selects which column family holds the "current" hours.
// 0 turns hour accounting off; 1, 2 and 3 map to the study phases.
type Phase int

const (
	PhaseOff Phase = iota
	Phase1
	Phase2
	Phase3
)

// PhaseColumns names the fixed column pair a phase reads and writes.
type PhaseColumns struct {
	DisplayHours string
	ExtraHours   string
}

var phaseColumns = map[Phase]PhaseColumns{
	Phase1: {DisplayHours: "display_hours_1", ExtraHours: "extra_hours_1"},
	Phase2: {DisplayHours: "display_hours_2", ExtraHours: "extra_hours_2"},
	Phase3: {DisplayHours: "display_hours_3", ExtraHours: "extra_hours_3"},
}

// ParsePhase validates a configured phase number.
func ParsePhase(n int) (Phase, error) {
	p := Phase(n)
	if p != PhaseOff {
		if _, ok := phaseColumns[p]; !ok {
			return PhaseOff, fmt.Errorf("unknown phase %d (want 0-3)", n)
		}
	}
	return p, nil
}

// Columns returns the column pair for the phase; ok is false for PhaseOff.
func (p Phase) Columns() (PhaseColumns, bool) {
	cols, ok := phaseColumns[p]
	return cols, ok
}

func (p Phase) String() string {
	if p == PhaseOff {
		return "off"
	}
	return fmt.Sprintf("phase %d", int(p))
}
