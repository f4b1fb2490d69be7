package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

type SessionState string

const (
	StateDraft      SessionState = "draft"
	StateCalculated SessionState = "calculated"
)

var ErrNotCalculated = errors.New("not_calculated")

// Session tracks the inputs of one quotation being edited. It is a
// two-state machine: any input change moves calculated back to draft,
// so a displayed result can never outlive the inputs it was derived
// from. Snapshot is only legal in the calculated state.
type Session struct {
	fabric    MaterialLine
	lining    MaterialLine
	trim      MaterialLine
	laborCost decimal.Decimal
	params    CascadeParams
	state     SessionState
}

// Snapshot is an immutable copy of a session's inputs at calculation
// time. Records are persisted from snapshots, never from live sessions.
type Snapshot struct {
	Fabric    MaterialLine
	Lining    MaterialLine
	Trim      MaterialLine
	LaborCost decimal.Decimal
	Params    CascadeParams
}

func NewSession() *Session {
	return &Session{state: StateDraft}
}

func (s *Session) State() SessionState { return s.state }

func (s *Session) SetFabric(line MaterialLine) {
	s.fabric = line
	s.invalidate()
}

func (s *Session) SetLining(line MaterialLine) {
	s.lining = line
	s.invalidate()
}

func (s *Session) SetTrim(line MaterialLine) {
	s.trim = line
	s.invalidate()
}

func (s *Session) SetLaborCost(cost decimal.Decimal) {
	s.laborCost = cost
	s.invalidate()
}

func (s *Session) SetParams(params CascadeParams) {
	s.params = params
	s.invalidate()
}

// MarkCalculated records that a breakdown has been computed from the
// current inputs.
func (s *Session) MarkCalculated() {
	s.state = StateCalculated
}

// Snapshot returns an immutable copy of the inputs. It fails while the
// session is a draft: stale or never-computed inputs must not be
// persisted as a calculation.
func (s *Session) Snapshot() (Snapshot, error) {
	if s.state != StateCalculated {
		return Snapshot{}, ErrNotCalculated
	}
	return Snapshot{
		Fabric:    s.fabric,
		Lining:    s.lining,
		Trim:      s.trim,
		LaborCost: s.laborCost,
		Params:    s.params,
	}, nil
}

func (s *Session) invalidate() {
	s.state = StateDraft
}
