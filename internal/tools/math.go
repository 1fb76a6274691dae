package tools

import (
	"context"
	"fmt"

	"github.com/reactrun/reactor/internal/models"
)

// NewAddTool and NewMultiplyTool are example domain tools in the
// "default" toolbox, standing in for the concrete tool implementations
// the spec explicitly places out of scope (file I/O, HTTP, finance data,
// image generation) while still giving the Executor's tool namespace
// something real to dispatch to in tests and demos.
func NewAddTool() models.Tool {
	return models.Tool{
		Name:        "add",
		ToolboxName: models.DefaultToolboxName,
		Description: "Add two numbers.",
		Arguments: []models.ToolArgument{
			{Name: "x", ArgType: "float", Required: true, Description: "First addend"},
			{Name: "y", ArgType: "float", Required: true, Description: "Second addend"},
		},
		Execute: func(_ context.Context, args map[string]any) (any, error) {
			x, err := toFloat(args["x"])
			if err != nil {
				return nil, fmt.Errorf("add: x: %w", err)
			}
			y, err := toFloat(args["y"])
			if err != nil {
				return nil, fmt.Errorf("add: y: %w", err)
			}
			return x + y, nil
		},
	}
}

func NewMultiplyTool() models.Tool {
	return models.Tool{
		Name:        "multiply",
		ToolboxName: models.DefaultToolboxName,
		Description: "Multiply two numbers.",
		Arguments: []models.ToolArgument{
			{Name: "x", ArgType: "float", Required: true, Description: "First factor"},
			{Name: "y", ArgType: "float", Required: true, Description: "Second factor"},
		},
		Execute: func(_ context.Context, args map[string]any) (any, error) {
			x, err := toFloat(args["x"])
			if err != nil {
				return nil, fmt.Errorf("multiply: x: %w", err)
			}
			y, err := toFloat(args["y"])
			if err != nil {
				return nil, fmt.Errorf("multiply: y: %w", err)
			}
			return x * y, nil
		},
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
