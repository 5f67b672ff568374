package mealprep

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// NewLogger builds a slog logger writing to w in the configured format.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// GenerationLogger records the outcome of each slot while a meal plan is built.
type GenerationLogger interface {
	LogSlot(slot SlotLog) error
}

// NewGenerationLogFilePath returns a timestamped path for a generation log.
func NewGenerationLogFilePath(source string) string {
	return fmt.Sprintf(
		"./logs/%d.%s.json",
		time.Now().Unix(),
		strings.ReplaceAll(strings.ToLower(source), " ", "_"),
	)
}

// SlotLog is the record of a single (day, meal type) lookup.
type SlotLog struct {
	Day         Day       `json:"day"`
	MealType    MealType  `json:"meal_type"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	RecipeID    int       `json:"recipe_id,omitempty"`
	RecipeTitle string    `json:"recipe_title,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// FileGenerationLogger accumulates slot records and writes them as one document on Flush.
type FileGenerationLogger struct {
	slots  []SlotLog
	writer io.Writer
}

func NewFileGenerationLogger(writer io.Writer) *FileGenerationLogger {
	return &FileGenerationLogger{
		slots:  make([]SlotLog, 0, SlotCount),
		writer: writer,
	}
}

func (l *FileGenerationLogger) LogSlot(slot SlotLog) error {
	l.slots = append(l.slots, slot)
	return nil
}

// Flush writes the buffered slots and clears the buffer.
func (l *FileGenerationLogger) Flush() error {
	if l.writer == nil {
		return nil
	}

	data, err := json.MarshalIndent(map[string]any{
		"generation": map[string]any{
			"timestamp": time.Now(),
			"slots":     l.slots,
		},
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal generation log: %w", err)
	}

	if _, err := l.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write generation log: %w", err)
	}

	l.slots = l.slots[:0]
	return nil
}

type NoOpGenerationLogger struct{}

func NewNoOpGenerationLogger() *NoOpGenerationLogger {
	return &NoOpGenerationLogger{}
}

func (nop *NoOpGenerationLogger) LogSlot(slot SlotLog) error {
	return nil
}

// StdoutGenerationLogger writes each slot as a JSON line to stdout (for Lambda/CloudWatch).
type StdoutGenerationLogger struct {
	out io.Writer
}

func NewStdoutGenerationLogger() *StdoutGenerationLogger {
	return &StdoutGenerationLogger{out: os.Stdout}
}

func (l *StdoutGenerationLogger) LogSlot(slot SlotLog) error {
	data, err := json.Marshal(slot)
	if err != nil {
		return err
	}
	fmt.Fprintln(l.out, string(data))
	return nil
}
