// Package sandbox runs one Action's generated code in an isolated
// goja VM, exposing the agent's registered tools as a namespace of
// synchronously-called functions and enforcing a timeout and a module
// allow-list. The untrusted-code surface is goja's pure-Go ECMAScript
// interpreter.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/reactrun/reactor/internal/models"
)

// ErrAbortConfirmationDeclined is the distinguished error a declined
// RequiresConfirmation tool call raises. Execute recognizes it by message
// (goja's panic-to-exception boundary does not reliably preserve Go error
// identity through errors.Is) and reports it as the abort condition rather
// than an ordinary step failure.
var ErrAbortConfirmationDeclined = errors.New("User declined to execute tool")

// AllowedModules is the fixed set of require()-able module names.
// Generated code may only require one of these; anything else is
// rejected at require time.
var AllowedModules = []string{"asyncio", "math", "random", "time", "typing", "datetime", "dataclasses"}

func isAllowedModule(name string) bool {
	for _, m := range AllowedModules {
		if m == name {
			return true
		}
	}
	return false
}

// ToolCaller is the event-emission hook the Executor invokes around every
// tool call, letting package agent observe ToolExecutionStarted/
// Completed/Error without sandbox importing agent's EventBus (which would
// create an import cycle).
type ToolCaller interface {
	ToolCallStarted(stepNumber int, toolName string, args map[string]any)
	ToolCallCompleted(stepNumber int, toolName string, result any)
	ToolCallError(stepNumber int, toolName string, err error)
	// Confirm is invoked for a tool with RequiresConfirmation set, and
	// must block until the user responds.
	Confirm(stepNumber int, toolName, message string, args map[string]any) bool
}

// Executor runs one Action's code against a fixed tool namespace.
type Executor struct {
	tools   []models.Tool
	timeout time.Duration
}

// New creates an Executor exposing tools, each sandbox run bounded by
// timeout (default 300s if timeout <= 0).
func New(tools []models.Tool, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Executor{tools: tools, timeout: timeout}
}

// Execute runs code's top-level `function main() { ... }` against
// contextVars, returning a structured ExecutionResult.
func (e *Executor) Execute(ctx context.Context, code string, contextVars map[string]any, stepNumber int, caller ToolCaller) models.ExecutionResult {
	started := time.Now()

	vm := goja.New()
	e.installRequire(vm)
	e.installToolNamespace(vm, stepNumber, caller)
	vm.Set("context_vars", contextVars)
	vm.Set("current_step", stepNumber)

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := vm.RunString(code)
		if err != nil {
			done <- err
			return
		}
		main, ok := goja.AssertFunction(vm.Get("main"))
		if !ok {
			done <- fmt.Errorf("code does not define main()")
			return
		}
		_, err = main(goja.Undefined())
		done <- err
	}()

	select {
	case <-runCtx.Done():
		vm.Interrupt("execution timed out")
		<-done
		return e.errorResult(started, fmt.Errorf("execution timed out after %s", e.timeout))
	case err := <-done:
		if err != nil {
			if strings.Contains(err.Error(), ErrAbortConfirmationDeclined.Error()) {
				return e.abortedResult(started)
			}
			return e.errorResult(started, err)
		}
	}

	return e.successResult(vm, started)
}

func (e *Executor) errorResult(started time.Time, err error) models.ExecutionResult {
	return models.ExecutionResult{
		ExecutionStatus: models.ExecutionError,
		Error:           err.Error(),
		ExecutionTime:   time.Since(started).Seconds(),
	}
}

func (e *Executor) abortedResult(started time.Time) models.ExecutionResult {
	return models.ExecutionResult{
		ExecutionStatus: models.ExecutionError,
		Error:           ErrAbortConfirmationDeclined.Error(),
		TaskStatus:      models.TaskAborted,
		Aborted:         true,
		ExecutionTime:   time.Since(started).Seconds(),
	}
}

// successResult walks the VM's global object to capture local variables,
// excluding "__"-prefixed names and callables.
func (e *Executor) successResult(vm *goja.Runtime, started time.Time) models.ExecutionResult {
	result := models.ExecutionResult{
		ExecutionStatus: models.ExecutionSuccess,
		ExecutionTime:   time.Since(started).Seconds(),
		LocalVariables:  make(map[string]string),
	}

	global := vm.GlobalObject()
	for _, name := range global.Keys() {
		if strings.HasPrefix(name, "__") || name == "main" || name == "context_vars" || name == "current_step" || name == "require" {
			continue
		}
		val := global.Get(name)
		if val == nil || goja.IsUndefined(val) {
			continue
		}
		if _, ok := goja.AssertFunction(val); ok {
			continue
		}
		result.LocalVariables[name] = val.String()
	}

	if taskResult, ok := result.LocalVariables["task_status"]; ok {
		result.TaskStatus = models.TaskStatus(taskResult)
	}
	if answer, ok := result.LocalVariables["result"]; ok {
		result.Result = answer
	}
	if next, ok := result.LocalVariables["next_step"]; ok {
		result.NextStep = next
	}

	return result
}

// installRequire exposes a require(name) global gated by AllowedModules.
// Generated code never needs real Node-style modules here — this is a
// placeholder object whose presence lets code branch on
// `require("asyncio")` truthiness without the runtime needing to
// actually implement those modules.
func (e *Executor) installRequire(vm *goja.Runtime) {
	require := func(call goja.FunctionCall) goja.Value {
		name := call.Argument(0).String()
		if !isAllowedModule(name) {
			panic(vm.NewTypeError(fmt.Sprintf("module %q is not in the allowed module list", name)))
		}
		return vm.NewObject()
	}
	vm.Set("require", require)
}

// installToolNamespace builds one namespace object per toolbox, each
// holding its tools as callable functions.
func (e *Executor) installToolNamespace(vm *goja.Runtime, stepNumber int, caller ToolCaller) {
	boxes := make(map[string]*goja.Object)
	for _, t := range e.tools {
		box := t.ToolboxName
		if box == "" {
			box = models.DefaultToolboxName
		}
		obj, ok := boxes[box]
		if !ok {
			obj = vm.NewObject()
			boxes[box] = obj
			vm.Set(box, obj)
		}
		obj.Set(t.Name, e.wrapTool(vm, t, stepNumber, caller))
	}
}

// wrapTool returns a goja function that synchronously invokes a Tool's
// Execute, emitting the started/completed/error lifecycle caller expects
// and honoring RequiresConfirmation.
func (e *Executor) wrapTool(vm *goja.Runtime, tool models.Tool, stepNumber int, caller ToolCaller) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		args := map[string]any{}
		if len(call.Arguments) > 0 {
			if obj := call.Argument(0).ToObject(vm); obj != nil {
				for _, key := range obj.Keys() {
					args[key] = obj.Get(key).Export()
				}
			}
		}

		if tool.RequiresConfirmation && caller != nil {
			if !caller.Confirm(stepNumber, tool.QualifiedName(), tool.Confirmation(), args) {
				panic(vm.NewGoError(ErrAbortConfirmationDeclined))
			}
		}

		if caller != nil {
			caller.ToolCallStarted(stepNumber, tool.QualifiedName(), args)
		}

		out, err := tool.Execute(context.Background(), args)
		if err != nil {
			if caller != nil {
				caller.ToolCallError(stepNumber, tool.QualifiedName(), err)
			}
			panic(vm.NewGoError(err))
		}

		if caller != nil {
			caller.ToolCallCompleted(stepNumber, tool.QualifiedName(), out)
		}
		return vm.ToValue(out)
	}
}
