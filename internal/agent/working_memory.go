package agent

import (
	"fmt"
	"strings"
	"sync"

	"github.com/reactrun/reactor/internal/models"
)

// DefaultWorkingMemoryMaxTokens bounds how much of the step history
// FormatHistory renders before truncating.
const DefaultWorkingMemoryMaxTokens = 64 * 1024

// WorkingMemory accumulates the Steps of one solve() run along with the
// persistent system prompt and task description that get prefixed onto
// every rendered prompt.
type WorkingMemory struct {
	mu sync.RWMutex

	systemPrompt    string
	taskDescription string
	maxTokens       int
	steps           []models.Step
}

// NewWorkingMemory creates an empty memory for one task.
func NewWorkingMemory(systemPrompt, taskDescription string, maxTokens int) *WorkingMemory {
	if maxTokens <= 0 {
		maxTokens = DefaultWorkingMemoryMaxTokens
	}
	return &WorkingMemory{
		systemPrompt:    systemPrompt,
		taskDescription: taskDescription,
		maxTokens:       maxTokens,
	}
}

// AddStep appends a completed Step. Steps are immutable once added.
func (m *WorkingMemory) AddStep(step models.Step) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
}

// Clear resets the step history for a new task, keeping the persistent
// prompt/description.
func (m *WorkingMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = nil
}

// Steps returns a snapshot of the accumulated steps in order.
func (m *WorkingMemory) Steps() []models.Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Step, len(m.steps))
	copy(out, m.steps)
	return out
}

// resultVariables extracts the variable names a step's ExecutionResult
// exposed, for the "Available variables: ..." summary line. The original
// parses the raw result XML to find a <Variables> element; here the
// structured ExecutionResult already carries LocalVariables, so this is a
// direct map-keys read rather than a reparse.
func resultVariables(r models.ExecutionResult) []string {
	if len(r.LocalVariables) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.LocalVariables))
	for name := range r.LocalVariables {
		names = append(names, name)
	}
	return names
}

func formatResultSummary(r models.ExecutionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- Execution Status: %s\n", r.ExecutionStatus)
	if r.ExecutionStatus == models.ExecutionSuccess {
		status := r.TaskStatus
		if status == "" {
			status = "N/A"
		}
		fmt.Fprintf(&b, "- Task Status: %s\n", status)
		result := r.Result
		if result == "" {
			result = "N/A"
		}
		fmt.Fprintf(&b, "- Result: %s\n", result)
		if r.NextStep != "" {
			fmt.Fprintf(&b, "- Next Step: %s\n", r.NextStep)
		}
	} else {
		errMsg := r.Error
		if errMsg == "" {
			errMsg = "N/A"
		}
		fmt.Fprintf(&b, "- Error: %s\n", errMsg)
	}
	fmt.Fprintf(&b, "- Execution Time: %s", r.ExecutionTimeLabel())
	return b.String()
}

// FormatHistory renders the accumulated steps, newest-inclusion-first but
// printed in chronological order, truncating from the oldest step once the
// rendered word count would exceed maxTokens — mirroring
// HistoryManager.format_history's reversed-accumulate-then-reverse
// algorithm exactly, including its token estimate (word count, not a real
// tokenizer).
func (m *WorkingMemory) FormatHistory(maxIterations int) string {
	m.mu.RLock()
	steps := make([]models.Step, len(m.steps))
	copy(steps, m.steps)
	maxTokens := m.maxTokens
	m.mu.RUnlock()

	if len(steps) == 0 {
		return "No previous steps"
	}

	var included []string
	total := 0
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		vars := resultVariables(step.Result)
		varList := "None"
		if len(vars) > 0 {
			varList = strings.Join(vars, ", ")
		}
		resultSummary := "No result available"
		if step.Result.ExecutionStatus != "" {
			resultSummary = formatResultSummary(step.Result)
		}
		stepStr := fmt.Sprintf(
			"===== Step %d of %d max =====\nThought:\n%s\n\nAction:\n%s\n\nResult:\n%s\nAvailable variables: %s",
			step.StepNumber, maxIterations, step.Thought, step.Action, resultSummary, varList,
		)
		tokens := len(strings.Fields(stepStr))
		if total+tokens > maxTokens {
			break
		}
		included = append(included, stepStr)
		total += tokens
	}

	for i, j := 0, len(included)-1; i < j; i, j = i+1, j-1 {
		included[i], included[j] = included[j], included[i]
	}
	if len(included) == 0 {
		return "No previous steps"
	}
	return strings.Join(included, "\n")
}

// GetFullContext combines the system prompt, task description, and
// formatted step history into the single context string consumed by the
// prompt-assembly template.
func (m *WorkingMemory) GetFullContext(maxIterations int) string {
	m.mu.RLock()
	systemPrompt := m.systemPrompt
	taskDescription := m.taskDescription
	m.mu.RUnlock()

	var parts []string
	if systemPrompt != "" {
		parts = append(parts, "System Prompt:\n"+systemPrompt)
	}
	if taskDescription != "" {
		parts = append(parts, "Task Description:\n"+taskDescription)
	}
	historyStr := m.FormatHistory(maxIterations)
	if historyStr != "No previous steps" {
		parts = append(parts, "History:\n"+historyStr)
	}
	return strings.Join(parts, "\n\n")
}

// availableVariableNames returns the most recent step's exposed variable
// names, or nil if no step has run yet. Used to populate the
// available_vars slot of the next prompt.
func (m *WorkingMemory) availableVariableNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.steps) == 0 {
		return nil
	}
	return resultVariables(m.steps[len(m.steps)-1].Result)
}
