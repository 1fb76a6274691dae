package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rcontext "github.com/reactrun/reactor/internal/agent/context"
	"github.com/reactrun/reactor/internal/agent/reasoner"
	"github.com/reactrun/reactor/internal/agent/sandbox"
	"github.com/reactrun/reactor/internal/models"
)

// DefaultMaxIterations bounds a solve() run's step count.
const DefaultMaxIterations = 10

// Config configures a new Agent.
type Config struct {
	Name            string
	SystemPrompt    string
	Provider        reasoner.Provider
	Model           string
	Temperature     float64
	MaxIterations   int
	ToolTimeout     time.Duration
	SuccessCriteria string
	Logger          *slog.Logger
}

// Agent is the ReAct runtime facade: it owns one conversation, one event
// bus, and one tool registry, and drives Solve() runs through the
// reasoner and sandbox.
type Agent struct {
	id   string
	name string

	bus          *EventBus
	registry     *ToolRegistry
	conversation *ConversationHistory

	provider  reasoner.Provider
	reasoner  *Reasoner
	evaluator CompletionEvaluator

	systemPrompt    string
	model           string
	temperature     float64
	maxIterations   int
	toolTimeout     time.Duration
	successCriteria string

	lastContextVars map[string]any
	lastMemory      *WorkingMemory
}

// Reasoner is a type alias kept local to this package so Agent's field
// doesn't leak the reasoner package's name into every call site; the
// underlying type is reasoner.Reasoner.
type Reasoner = reasoner.Reasoner

// New creates an Agent with a freshly generated ID and, if Name is empty,
// a default "agent_<id prefix>" name.
func New(cfg Config) *Agent {
	id := models.NewID()
	name := cfg.Name
	if name == "" {
		name = "agent_" + id[:8]
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	a := &Agent{
		id:              id,
		name:            name,
		bus:             NewEventBus(id, name, cfg.Logger),
		registry:        NewToolRegistry(),
		conversation:    NewConversationHistory(0),
		provider:        cfg.Provider,
		reasoner:        reasoner.New(cfg.Provider, cfg.Model, cfg.Temperature),
		systemPrompt:    cfg.SystemPrompt,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxIterations:   cfg.MaxIterations,
		toolTimeout:     cfg.ToolTimeout,
		successCriteria: cfg.SuccessCriteria,
	}
	a.evaluator = NewCompletionEvaluator(cfg.Provider, cfg.Model, cfg.Temperature)
	if cfg.Provider != nil {
		a.conversation.EnableSummarization(
			&reasonerSummaryProvider{provider: cfg.Provider, model: cfg.Model, temperature: cfg.Temperature},
			rcontext.DefaultSummarizationConfig(),
		)
	}
	return a
}

func (a *Agent) ID() string   { return a.id }
func (a *Agent) Name() string { return a.name }

// RegisterTool adds a tool to this agent's registry, callable from any
// future Solve() run's generated code.
func (a *Agent) RegisterTool(t models.Tool) { a.registry.Register(t) }

// ListTools returns every registered tool.
func (a *Agent) ListTools() []models.Tool { return a.registry.List() }

// AddObserver subscribes obs to every event this agent emits, returning a
// subscription ID for RemoveObserver.
func (a *Agent) AddObserver(obs Observer) string { return a.bus.Subscribe(obs) }

// RemoveObserver cancels a subscription created by AddObserver.
func (a *Agent) RemoveObserver(id string) { a.bus.Unsubscribe(id) }

// Chat appends a message with the given role to the conversation and returns it; chat
// turns do not go through the ReAct loop.
func (a *Agent) Chat(role models.Role, content string) models.Message {
	return a.conversation.AddMessage(role, content)
}

// History returns the full chat transcript recorded via Chat.
func (a *Agent) History() []models.Message { return a.conversation.GetHistory() }

// GetContextVars returns the live context_vars map threaded through the
// most recent Solve() run, or nil if none has run yet.
func (a *Agent) GetContextVars() map[string]any {
	return a.lastContextVars
}

// ConversationHistory exposes the agent's chat transcript store, for
// wiring a retrieve_message-style tool into the registry.
func (a *Agent) ConversationHistory() *ConversationHistory { return a.conversation }

// Provider exposes the agent's configured LLM backend, for a plain-chat
// CLI surface that talks to the model directly without going through
// Solve()'s ReAct loop.
func (a *Agent) Provider() reasoner.Provider { return a.provider }

// Model and Temperature return the completion parameters Solve() and a
// plain-chat caller should both use.
func (a *Agent) Model() string        { return a.model }
func (a *Agent) Temperature() float64 { return a.temperature }
func (a *Agent) SystemPrompt() string { return a.systemPrompt }

// Memory returns the WorkingMemory of the most recent (or in-progress)
// Solve() run, or nil if none has run yet — used to wire a
// retrieve_step-style tool, whose target memory does not exist until
// Solve is first called.
func (a *Agent) Memory() *WorkingMemory { return a.lastMemory }

// Solve drives the ReAct loop to completion: reason, execute, judge,
// repeat, up to maxIterations steps.
func (a *Agent) Solve(ctx context.Context, task string) (string, error) {
	taskID := models.NewID()
	a.bus.SetTaskID(taskID)

	memory := NewWorkingMemory(a.systemPrompt, task, DefaultWorkingMemoryMaxTokens)
	contextVars := make(map[string]any)
	a.lastContextVars = contextVars
	a.lastMemory = memory

	a.bus.Emit(models.TaskStartedEvent{
		Base:            a.bus.Base(models.EventTaskStarted),
		TaskDescription: task,
		SystemPrompt:    a.systemPrompt,
	})

	caller := &eventToolCaller{bus: a.bus}
	exec := sandbox.New(a.registry.List(), a.toolTimeout)

	for stepNumber := 1; stepNumber <= a.maxIterations; stepNumber++ {
		select {
		case <-ctx.Done():
			a.emitTaskCompleted(nil, models.ReasonAborted)
			return "", ctx.Err()
		default:
		}

		a.bus.Emit(models.StepStartedEvent{
			Base:            a.bus.Base(models.EventStepStarted),
			StepNumber:      stepNumber,
			SystemPrompt:    a.systemPrompt,
			TaskDescription: task,
		})

		historyStr := memory.FormatHistory(a.maxIterations)
		prompt, err := reasoner.ActionProgramPrompt(reasoner.NewEngine(), reasoner.PromptInputs{
			TaskDescription: task,
			HistoryStr:      historyStr,
			CurrentStep:     stepNumber,
			MaxIterations:   a.maxIterations,
			Tools:           a.registry.List(),
			AvailableVars:   memory.availableVariableNames(),
		})
		if err != nil {
			a.emitError(&stepNumber, err)
			a.emitTaskCompleted(nil, models.ReasonError)
			return "", fmt.Errorf("render prompt: %w", err)
		}
		a.bus.Emit(models.PromptGeneratedEvent{Base: a.bus.Base(models.EventPromptGenerated), StepNumber: stepNumber, Prompt: prompt})

		genStart := time.Now()
		action, err := a.reasoner.GenerateAction(ctx, reasoner.PromptInputs{
			TaskDescription: task,
			HistoryStr:      historyStr,
			CurrentStep:     stepNumber,
			MaxIterations:   a.maxIterations,
			Tools:           a.registry.List(),
			AvailableVars:   memory.availableVariableNames(),
		})
		if err != nil {
			a.emitError(&stepNumber, err)
			a.emitTaskCompleted(nil, models.ReasonError)
			return "", fmt.Errorf("generate action: %w", err)
		}
		genElapsed := time.Since(genStart)

		a.bus.Emit(models.ThoughtGeneratedEvent{Base: a.bus.Base(models.EventThoughtGenerated), StepNumber: stepNumber, Thought: action.Thought, GenerationTime: genElapsed})
		a.bus.Emit(models.ActionGeneratedEvent{Base: a.bus.Base(models.EventActionGenerated), StepNumber: stepNumber, ActionCode: action.Code, GenerationTime: genElapsed})

		execStart := time.Now()
		result := exec.Execute(ctx, action.Code, contextVars, stepNumber, caller)
		execElapsed := time.Since(execStart)
		if result.ExecutionStatus == models.ExecutionSuccess {
			for k, v := range result.LocalVariables {
				contextVars[k] = v
			}
		}

		a.bus.Emit(models.ActionExecutedEvent{Base: a.bus.Base(models.EventActionExecuted), StepNumber: stepNumber, Result: result, ExecutionTime: execElapsed})

		step := models.Step{StepNumber: stepNumber, Thought: action.Thought, Action: action.Code, Result: result}
		memory.AddStep(step)

		if result.Aborted {
			memory.AddStep(models.Step{
				StepNumber: stepNumber,
				Result: models.ExecutionResult{
					ExecutionStatus: models.ExecutionError,
					Error:           result.Error,
					TaskStatus:      models.TaskAborted,
					Aborted:         true,
				},
			})
			return "", fmt.Errorf("agent: task aborted: %w", sandbox.ErrAbortConfirmationDeclined)
		}

		complete, finalAnswer := a.evaluator.EvaluateCompletion(ctx, task, historyStr, result, a.successCriteria)

		var finalPtr *string
		if complete {
			finalPtr = &finalAnswer
		}
		a.bus.Emit(models.StepCompletedEvent{
			Base:        a.bus.Base(models.EventStepCompleted),
			StepNumber:  stepNumber,
			Thought:     action.Thought,
			Action:      action.Code,
			Result:      result,
			IsComplete:  complete,
			FinalAnswer: finalPtr,
		})

		if complete {
			a.emitTaskCompleted(&finalAnswer, models.ReasonSuccess)
			return finalAnswer, nil
		}
	}

	a.emitTaskCompleted(nil, models.ReasonMaxIterations)
	return "", fmt.Errorf("agent: max iterations (%d) reached without completion", a.maxIterations)
}

func (a *Agent) emitError(stepNumber *int, err error) {
	a.bus.Emit(models.ErrorOccurredEvent{
		Base:         a.bus.Base(models.EventErrorOccurred),
		ErrorMessage: err.Error(),
		StepNumber:   stepNumber,
	})
}

func (a *Agent) emitTaskCompleted(finalAnswer *string, reason models.TaskCompletionReason) {
	a.bus.Emit(models.TaskCompletedEvent{
		Base:        a.bus.Base(models.EventTaskCompleted),
		FinalAnswer: finalAnswer,
		Reason:      reason,
	})
}
