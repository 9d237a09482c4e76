// Package domain holds the core types of the provisioning pipeline,
// free of transport and storage concerns.
package domain

import "fmt"

// Action selects what a provisioning run does with the derived DS set.
type Action string

const (
	// ActionSubmit files the DS set with the registry.
	ActionSubmit Action = "submit"
	// ActionRetract asks the registry to remove a previously filed DS set.
	ActionRetract Action = "retract"
	// ActionConvert derives DS records locally without touching the registry.
	ActionConvert Action = "convert"
)

// ParseAction validates an action name from flags or config.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionSubmit, ActionRetract, ActionConvert:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action %q, expected submit, retract or convert", s)
}

// State tracks how far a record travelled through the pipeline.
type State string

const (
	StateIdle      State = "idle"
	StateParsed    State = "parsed"
	StateConverted State = "converted"
	StateSubmitted State = "submitted"
	StateReported  State = "reported"
	StateFailed    State = "failed"
)

// TaskState mirrors the lifecycle of an asynchronous registry task.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
)

// Task is the registry's handle for a change it accepted for
// asynchronous processing.
type Task struct {
	Ref    string    `json:"ref" yaml:"ref"`
	State  TaskState `json:"state" yaml:"state"`
	Detail string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Submission records one DS record prepared for, or accepted by, the
// registry.
type Submission struct {
	RR         string    `json:"rr" yaml:"rr"`
	DigestType string    `json:"digest_type" yaml:"digest_type"`
	TaskRef    string    `json:"task_ref,omitempty" yaml:"task_ref,omitempty"`
	TaskState  TaskState `json:"task_state,omitempty" yaml:"task_state,omitempty"`
}

// Result is the terminal outcome for one input record. Records in a
// batch succeed or fail independently, so a run produces one Result per
// input line.
type Result struct {
	Index       int          `json:"index" yaml:"index"`
	Action      Action       `json:"action" yaml:"action"`
	Owner       string       `json:"owner,omitempty" yaml:"owner,omitempty"`
	KeyTag      uint16       `json:"key_tag,omitempty" yaml:"key_tag,omitempty"`
	Algorithm   string       `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	State       State        `json:"state" yaml:"state"`
	Submissions []Submission `json:"submissions,omitempty" yaml:"submissions,omitempty"`
	Ambiguous   bool         `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
	ErrorKind   string       `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorDetail string       `json:"error,omitempty" yaml:"error,omitempty"`

	Err error `json:"-" yaml:"-"`
}

// Fail moves the result to its failed terminal state, keeping any
// submissions that already went through.
func (r *Result) Fail(err error) {
	r.State = StateFailed
	r.Err = err
	r.ErrorKind = ErrorKind(err)
	r.ErrorDetail = err.Error()
	if IsAmbiguous(err) {
		r.Ambiguous = true
	}
}

// Failed reports whether the record ended in the failed state.
func (r *Result) Failed() bool { return r.State == StateFailed }

// Credentials authenticate requests against one registry account.
type Credentials struct {
	Account string
	Token   string
}
