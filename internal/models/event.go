package models

import "time"

// EventType discriminates the concrete Event implementations below. Rather
// than one envelope struct with a grab-bag of optional per-type payload
// fields, each event type gets its own concrete struct with only the
// fields that type actually has: a type switch over concrete structs
// expresses structurally different required fields per type more safely
// than a bag of nullable pointers.
type EventType string

const (
	EventTaskStarted           EventType = "task_started"
	EventStepStarted           EventType = "step_started"
	EventPromptGenerated       EventType = "prompt_generated"
	EventStreamToken           EventType = "stream_token"
	EventThoughtGenerated      EventType = "thought_generated"
	EventActionGenerated       EventType = "action_generated"
	EventToolExecutionStarted  EventType = "tool_execution_started"
	EventToolConfirmationAsked EventType = "tool_confirmation_request"
	EventToolExecutionDone     EventType = "tool_execution_completed"
	EventToolExecutionError    EventType = "tool_execution_error"
	EventActionExecuted        EventType = "action_executed"
	EventStepCompleted         EventType = "step_completed"
	EventErrorOccurred         EventType = "error_occurred"
	EventTaskCompleted         EventType = "task_completed"
)

// TaskCompletionReason enumerates why a solve() run stopped.
type TaskCompletionReason string

const (
	ReasonSuccess       TaskCompletionReason = "success"
	ReasonMaxIterations TaskCompletionReason = "max_iterations_reached"
	ReasonError         TaskCompletionReason = "error"
	ReasonAborted       TaskCompletionReason = "aborted"
)

// Base carries the fields every Event shares.
type Base struct {
	Type      EventType `json:"event_type"`
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	TaskID    string    `json:"task_id,omitempty"`
	// Sequence is a monotonic counter within one Agent, used to break ties
	// when two events share a timestamp.
	Sequence uint64 `json:"sequence"`
}

// Event is implemented by every concrete event type below. EventBase
// returns the shared envelope fields for routing and logging.
type Event interface {
	EventBase() Base
}

type TaskStartedEvent struct {
	Base
	TaskDescription string
	SystemPrompt    string
}

type StepStartedEvent struct {
	Base
	StepNumber      int
	SystemPrompt    string
	TaskDescription string
}

type PromptGeneratedEvent struct {
	Base
	StepNumber int
	Prompt     string
}

type StreamTokenEvent struct {
	Base
	Token      string
	StepNumber *int
}

type ThoughtGeneratedEvent struct {
	Base
	StepNumber     int
	Thought        string
	GenerationTime time.Duration
}

type ActionGeneratedEvent struct {
	Base
	StepNumber     int
	ActionCode     string
	GenerationTime time.Duration
}

type ToolExecutionStartedEvent struct {
	Base
	StepNumber        int
	ToolName          string
	ParametersSummary map[string]string
}

// ConfirmationResponse is delivered exactly once through a
// ToolConfirmationRequestEvent's Respond channel.
type ConfirmationResponse struct {
	Approved bool
}

type ToolConfirmationRequestEvent struct {
	Base
	StepNumber          int
	ToolName            string
	ConfirmationMessage string
	ParametersSummary   map[string]string
	// Respond is a single-shot channel; an observer sends the user's
	// decision here and the tool caller waiting on it reads only the
	// first reply.
	Respond chan<- ConfirmationResponse
}

type ToolExecutionCompletedEvent struct {
	Base
	StepNumber    int
	ToolName      string
	ResultSummary string
}

type ToolExecutionErrorEvent struct {
	Base
	StepNumber int
	ToolName   string
	Error      string
}

type ActionExecutedEvent struct {
	Base
	StepNumber    int
	Result        ExecutionResult
	ExecutionTime time.Duration
}

type StepCompletedEvent struct {
	Base
	StepNumber  int
	Thought     string
	Action      string
	Result      ExecutionResult
	IsComplete  bool
	FinalAnswer *string
}

type ErrorOccurredEvent struct {
	Base
	ErrorMessage string
	StepNumber   *int
}

type TaskCompletedEvent struct {
	Base
	FinalAnswer *string
	Reason      TaskCompletionReason
}

// EventBase implementations — one line each, satisfying the Event
// interface via the embedded Base field.
func (e TaskStartedEvent) EventBase() Base             { return e.Base }
func (e StepStartedEvent) EventBase() Base             { return e.Base }
func (e PromptGeneratedEvent) EventBase() Base         { return e.Base }
func (e StreamTokenEvent) EventBase() Base             { return e.Base }
func (e ThoughtGeneratedEvent) EventBase() Base        { return e.Base }
func (e ActionGeneratedEvent) EventBase() Base         { return e.Base }
func (e ToolExecutionStartedEvent) EventBase() Base    { return e.Base }
func (e ToolConfirmationRequestEvent) EventBase() Base { return e.Base }
func (e ToolExecutionCompletedEvent) EventBase() Base  { return e.Base }
func (e ToolExecutionErrorEvent) EventBase() Base      { return e.Base }
func (e ActionExecutedEvent) EventBase() Base          { return e.Base }
func (e StepCompletedEvent) EventBase() Base           { return e.Base }
func (e ErrorOccurredEvent) EventBase() Base           { return e.Base }
func (e TaskCompletedEvent) EventBase() Base           { return e.Base }
