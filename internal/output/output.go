// Package output publishes terminal events to the configured destination:
// the console, partitioned JSON/CSV/Parquet files (local or S3), Kafka, or
// Postgres fact tables.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chrisdamba/tablepos/internal/models"
)

type Destination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// New opens the destination selected by cfg.OutputFormat.
func New(cfg *models.Config) (Destination, error) {
	switch cfg.OutputFormat {
	case "console", "":
		return NewConsoleOutput(os.Stdout), nil
	case "none":
		return NoopOutput{}, nil
	case "json":
		return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "csv":
		return NewCSVOutput(cfg.OutputPath, cfg.OutputFolder), nil
	case "parquet":
		return NewParquetOutput(cfg)
	case "kafka":
		return NewKafkaOutput(cfg)
	case "postgres":
		return NewPostgresOutput(&cfg.Database)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
	}
}

type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, string(msg)); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}

// NoopOutput discards every message.
type NoopOutput struct{}

func (NoopOutput) WriteMessage(string, []byte) error { return nil }
func (NoopOutput) Close() error                      { return nil }

// decodeEvent parses a message and returns it with its timestamp.
func decodeEvent(msg []byte) (map[string]interface{}, time.Time, error) {
	var event map[string]interface{}
	if err := json.Unmarshal(msg, &event); err != nil {
		return nil, time.Time{}, err
	}
	timestamp, ok := event["timestamp"].(float64)
	if !ok {
		return nil, time.Time{}, fmt.Errorf("invalid timestamp")
	}
	return event, time.Unix(int64(timestamp), 0).UTC(), nil
}

// partitionPath is the hive style directory an event lands in.
func partitionPath(eventTime time.Time) string {
	year, month, day := eventTime.Date()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, eventTime.Hour())
}

func partitionDir(basePath, folder, topic string, eventTime time.Time) (string, error) {
	return partitionDirFromPath(basePath, folder, topic, partitionPath(eventTime))
}

func partitionDirFromPath(basePath, folder, topic, partition string) (string, error) {
	fullPath := filepath.Join(basePath, folder, topic, filepath.FromSlash(partition))
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return "", err
	}
	return fullPath, nil
}
