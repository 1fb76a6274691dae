package reasoner

import (
	"sort"
	"strings"

	"github.com/reactrun/reactor/internal/models"
	"github.com/reactrun/reactor/internal/templates"
)

// allowedModulesTemplate is the fixed module allow-list advertised to
// the model, matching sandbox.AllowedModules.
var allowedModulesTemplate = []string{"asyncio", "math", "random", "time", "typing", "datetime", "dataclasses"}

// actionProgramTemplate is the Jinja-delimited prompt rendered for every
// reasoning step.
const actionProgramTemplate = `You are solving the following task using JavaScript code actions.

Task:
{{ .TaskDescription }}

{{ .HistoryStr }}

This is step {{ .CurrentStep }} of a maximum of {{ .MaxIterations }}.

Available tools, grouped by toolbox:
{{ range $toolbox, $tools := .ToolsByToolbox }}
[{{ $toolbox }}]
{{ range $tools }}- {{ .Name }}({{ range $i, $a := .Arguments }}{{ if $i }}, {{ end }}{{ $a.Name }}{{ end }}): {{ .Description }}
{{ end }}{{ end }}
Available variables from previous steps: {{ if .AvailableVars }}{{ join .AvailableVars ", " }}{{ else }}none{{ end }}

Allowed imports: {{ join .AllowedModules ", " }}

Respond with exactly one <Action> element containing a <Thought> explaining
your reasoning and a <Code> block defining a plain, non-async
function main() { ... } that the sandbox will execute.`

// responseFormatTemplate documents the exact wire shape the Reasoner
// expects back, appended to the system prompt so every model call
// reiterates the contract.
const responseFormatTemplate = `Your entire response must be a single XML element:

<Action>
  <Thought>...</Thought>
  <Code>
function main() {
    ...
}
  </Code>
</Action>

Do not include any text outside the <Action> element.`

// isTaskCompleteTemplate drives the LLM-judge verification step in the
// completion evaluator.
const isTaskCompleteTemplate = `Task: {{ .Task }}
Final answer produced: {{ .FinalAnswer }}
Task status reported by the executed code: {{ .TaskStatus }}
Reason: {{ .Reason }}

History:
{{ .History }}

Has the task truly been completed by this final answer? Reply with exactly
one word: "yes", "no", or "not_solvable".`

// PromptInputs carries everything ActionProgramPrompt needs to render one
// reasoning step's prompt.
type PromptInputs struct {
	TaskDescription string
	HistoryStr      string
	CurrentStep     int
	MaxIterations   int
	Tools           []models.Tool
	AvailableVars   []string
}

// ActionProgramPrompt renders the per-step reasoning prompt.
func ActionProgramPrompt(engine *templates.VariableEngine, in PromptInputs) (string, error) {
	grouped := make(map[string][]models.Tool)
	for _, t := range in.Tools {
		box := t.ToolboxName
		if box == "" {
			box = models.DefaultToolboxName
		}
		grouped[box] = append(grouped[box], t)
	}

	return engine.Process(actionProgramTemplate, map[string]any{
		"TaskDescription": in.TaskDescription,
		"HistoryStr":      in.HistoryStr,
		"CurrentStep":     in.CurrentStep,
		"MaxIterations":   in.MaxIterations,
		"ToolsByToolbox":  grouped,
		"AvailableVars":   in.AvailableVars,
		"AllowedModules":  allowedModulesTemplate,
	})
}

// ResponseFormatPrompt renders the fixed response-shape reminder.
func ResponseFormatPrompt(engine *templates.VariableEngine) (string, error) {
	return engine.Process(responseFormatTemplate, nil)
}

// IsTaskCompleteInputs carries the verification prompt's variables.
type IsTaskCompleteInputs struct {
	Task        string
	FinalAnswer string
	TaskStatus  string
	Reason      string
	History     string
}

// IsTaskCompletePrompt renders the completion-verification prompt.
func IsTaskCompletePrompt(engine *templates.VariableEngine, in IsTaskCompleteInputs) (string, error) {
	return engine.Process(isTaskCompleteTemplate, map[string]any{
		"Task":        in.Task,
		"FinalAnswer": in.FinalAnswer,
		"TaskStatus":  in.TaskStatus,
		"Reason":      in.Reason,
		"History":     in.History,
	})
}

// joinStrings is registered as the "join" template func that
// ActionProgramPrompt's range over AvailableVars/AllowedModules needs; it
// is added in NewEngine explicitly, overriding defaultFuncMap's own
// "join" (also strings.Join) with the same behaviour.
func joinStrings(items []string, sep string) string {
	return strings.Join(items, sep)
}

// NewEngine returns a VariableEngine with the "join" helper this package's
// templates depend on layered onto the default func map.
func NewEngine() *templates.VariableEngine {
	e := templates.NewVariableEngine()
	e.FuncMap["join"] = joinStrings
	sort.Strings(allowedModulesTemplate) // stable doc order
	return e
}
