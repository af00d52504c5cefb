package application

import (
	"sync"

	"github.com/asgardex/asgardex-core/internal/core/ports"
	"github.com/asgardex/asgardex-core/pkg/remote"
)

// Step counts and leg counts per flow kind. Swap, asym deposit and upgrade
// send one transaction over three steps (health check, send, confirm); a
// symmetrical deposit sends two transactions over four steps.
const (
	SwapTotalSteps       = 3
	AsymDepositTotalSteps = 3
	UpgradeTotalSteps    = 3
	SymDepositTotalSteps = 4

	SingleLeg = 1
	SymLegs   = 2

	// Leg indexes of a symmetrical deposit
	LegAsset = 0
	LegRune  = 1
)

// Submission tracks the multi-step progress of one transaction flow:
// initial -> pending(step 1..totalSteps) -> success | error. The current
// step is a pass-through of the latest progress reported by the chain
// submitter, clamped to [1, totalSteps]. There is no automatic retry; a
// finished submission only leaves its terminal state through Reset.
type Submission struct {
	mtx sync.Mutex

	totalSteps int
	step       int
	legs       []remote.Data[string]
	overall    remote.Data[bool]
}

// NewSubmission builds a machine with fixed step and leg counts.
func NewSubmission(totalSteps, legCount int) *Submission {
	return &Submission{
		totalSteps: totalSteps,
		step:       1,
		legs:       make([]remote.Data[string], legCount),
	}
}

// Start moves the machine from initial to pending at step 1. It reports
// false without any effect when a submission is already running or finished.
func (s *Submission) Start() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.overall.IsNotAsked() {
		return false
	}
	s.overall = remote.Pending[bool]()
	s.step = 1
	for i := range s.legs {
		s.legs[i] = remote.Pending[string]()
	}
	return true
}

// SetStep records reported progress, clamped to [1, totalSteps]. Ignored
// outside of the pending state.
func (s *Submission) SetStep(step int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.overall.IsPending() {
		return
	}
	if step < 1 {
		step = 1
	}
	if step > s.totalSteps {
		step = s.totalSteps
	}
	s.step = step
}

// LegSucceeded records the tx id of one leg. Once every leg has succeeded
// the whole submission succeeds and the step snaps to the last one.
func (s *Submission) LegSucceeded(leg int, txID string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.overall.IsPending() || leg < 0 || leg >= len(s.legs) {
		return
	}
	s.legs[leg] = remote.Success(txID)
	for _, l := range s.legs {
		if !l.IsSuccess() {
			return
		}
	}
	s.overall = remote.Success(true)
	s.step = s.totalSteps
}

// LegFailed ends the submission with the first error encountered. Other
// legs keep whatever state they reached, so a completed counterpart tx id
// stays visible next to the failure.
func (s *Submission) LegFailed(leg int, err error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.overall.IsPending() {
		return
	}
	if leg >= 0 && leg < len(s.legs) {
		s.legs[leg] = remote.Failure[string](err)
	}
	s.overall = remote.Failure[bool](err)
}

// Reset returns the machine to initial.
func (s *Submission) Reset() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.overall = remote.NotAsked[bool]()
	s.step = 1
	for i := range s.legs {
		s.legs[i] = remote.NotAsked[string]()
	}
}

func (s *Submission) Step() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.step
}

func (s *Submission) TotalSteps() int {
	return s.totalSteps
}

// Overall returns the aggregated state of all requests of the submission.
func (s *Submission) Overall() remote.Data[bool] {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.overall
}

// Leg returns the tx result of one leg.
func (s *Submission) Leg(leg int) remote.Data[string] {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if leg < 0 || leg >= len(s.legs) {
		return remote.NotAsked[string]()
	}
	return s.legs[leg]
}

// apply feeds one submitter event into the machine.
func (s *Submission) apply(ev ports.SubmitEvent) {
	switch ev.Type {
	case ports.SubmitProgress:
		s.SetStep(ev.Step)
	case ports.SubmitLegSucceeded:
		s.LegSucceeded(ev.Leg, ev.TxID)
	case ports.SubmitLegFailed:
		s.LegFailed(ev.Leg, ev.Err)
	}
}
