package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"mealprep"
)

type Tool interface {
	Name() string
	Title() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema
	Run(ctx context.Context, input map[string]any) (output map[string]any, err error)
}

type Call struct {
	Name      string         `json:"name"`
	Input     map[string]any `json:"input"`
	ToolUseID string         `json:"tool_use_id,omitempty"`
}

// toMap round-trips v through JSON so every tool returns plain maps and slices.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal tool output: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal tool output: %w", err)
	}
	return m, nil
}

func stringInput(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return strings.TrimSpace(s)
}

// todayInput reads an optional YYYY-MM-DD "today" field, defaulting to now().
func todayInput(input map[string]any, now func() time.Time) (time.Time, error) {
	s := stringInput(input, "today")
	if s == "" {
		return now(), nil
	}
	today, err := time.Parse(mealprep.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse today: %w", err)
	}
	return today, nil
}

// intInput accepts JSON numbers, which decode as float64.
func intInput(input map[string]any, key string) int {
	switch v := input[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
