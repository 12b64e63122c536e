package invoiceapp

import "fmt"

// State is where an invoice is in the pipeline
type State string

const (
	StateReceived  State = "RECEIVED"
	StateValidated State = "VALIDATED"
	StateMapped    State = "MAPPED"
	StateResolved  State = "RESOLVED"
	StateWritten   State = "WRITTEN"
	StateFailed    State = "FAILED"
)

// Step is the pipeline step that moves an invoice out of a state. A failed
// result names the step that failed.
type Step string

const (
	StepValidate Step = "validation"
	StepMap      Step = "mapping"
	StepResolve  Step = "resolution"
	StepWrite    Step = "write"
)

var transitions = map[State]struct {
	to  State
	via Step
}{
	StateReceived:  {StateValidated, StepValidate},
	StateValidated: {StateMapped, StepMap},
	StateMapped:    {StateResolved, StepResolve},
	StateResolved:  {StateWritten, StepWrite},
}

// invoiceRun tracks one invoice through the strictly sequential pipeline.
// There is no way back out of FAILED or WRITTEN.
type invoiceRun struct {
	state      State
	failedStep Step
}

func newInvoiceRun() *invoiceRun {
	return &invoiceRun{state: StateReceived}
}

// next is the step the run will attempt from its current state
func (r *invoiceRun) next() Step {
	return transitions[r.state].via
}

// advance moves to the following state; it panics on an illegal transition,
// which would be a programming error in the processor
func (r *invoiceRun) advance(to State) {
	t, ok := transitions[r.state]
	if !ok || t.to != to {
		panic(fmt.Sprintf("illegal invoice transition %s -> %s", r.state, to))
	}
	r.state = to
}

// fail moves to FAILED, recording the step that was being attempted
func (r *invoiceRun) fail() Step {
	if r.state != StateFailed {
		r.failedStep = r.next()
		r.state = StateFailed
	}
	return r.failedStep
}
