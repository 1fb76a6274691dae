package agent

import (
	"time"

	"github.com/reactrun/reactor/internal/models"
)

// confirmTimeout bounds how long Confirm waits for an observer's
// decision. An observer that never responds is, from the run's
// perspective, indistinguishable from no observer at all — both must
// resolve to a declined confirmation rather than hang the run forever.
const confirmTimeout = 5 * time.Minute

// eventToolCaller adapts an EventBus into a sandbox.ToolCaller, emitting
// the Tool* event lifecycle around every sandboxed tool call.
type eventToolCaller struct {
	bus *EventBus
}

func (c *eventToolCaller) ToolCallStarted(stepNumber int, toolName string, args map[string]any) {
	c.bus.Emit(models.ToolExecutionStartedEvent{
		Base:              c.bus.Base(models.EventToolExecutionStarted),
		StepNumber:        stepNumber,
		ToolName:          toolName,
		ParametersSummary: models.SummarizeArgs(args),
	})
}

func (c *eventToolCaller) ToolCallCompleted(stepNumber int, toolName string, result any) {
	c.bus.Emit(models.ToolExecutionCompletedEvent{
		Base:          c.bus.Base(models.EventToolExecutionDone),
		StepNumber:    stepNumber,
		ToolName:      toolName,
		ResultSummary: models.SummarizeArg(result),
	})
}

func (c *eventToolCaller) ToolCallError(stepNumber int, toolName string, err error) {
	c.bus.Emit(models.ToolExecutionErrorEvent{
		Base:       c.bus.Base(models.EventToolExecutionError),
		StepNumber: stepNumber,
		ToolName:   toolName,
		Error:      err.Error(),
	})
}

// Confirm emits a ToolConfirmationRequestEvent synchronously, so a
// subscriber is guaranteed to have received it before this call blocks
// waiting on the response channel, then waits for exactly one reply. With
// no subscriber to ever answer, or one that never does within
// confirmTimeout, the call resolves to declined rather than deadlocking
// the run.
func (c *eventToolCaller) Confirm(stepNumber int, toolName, message string, args map[string]any) bool {
	if c.bus.ObserverCount() == 0 {
		return false
	}

	respond := make(chan models.ConfirmationResponse, 1)
	c.bus.EmitSync(models.ToolConfirmationRequestEvent{
		Base:                c.bus.Base(models.EventToolConfirmationAsked),
		StepNumber:          stepNumber,
		ToolName:            toolName,
		ConfirmationMessage: message,
		ParametersSummary:   models.SummarizeArgs(args),
		Respond:             respond,
	})

	select {
	case resp, ok := <-respond:
		return ok && resp.Approved
	case <-time.After(confirmTimeout):
		return false
	}
}
