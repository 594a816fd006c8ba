// Package cli provides output helpers for the ragassist command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/ragassist/internal/config"
)

// OutputFormat is the format for settings output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
	// OutputYAML matches the key names used in JSON output.
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat validates a -format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputJSON, OutputYAML:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// WriteSettings writes a redacted copy of s to w in the given format.
func WriteSettings(w io.Writer, s config.Settings, format OutputFormat) error {
	r := s.Redacted()
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode settings: %w", err)
		}
		return enc.Close()
	default:
		writeSettingsText(w, r)
		return nil
	}
}

func writeSettingsText(w io.Writer, s config.Settings) {
	fmt.Fprintf(w, "%-26s %s\n", config.EnvHFToken, s.HFToken)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvModelID, s.ModelID)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvEmbeddingModel, s.EmbeddingModel)
	fmt.Fprintf(w, "%-26s %d\n", config.EnvTopK, s.TopK)
	fmt.Fprintf(w, "%-26s %d\n", config.EnvChunkSize, s.ChunkSize)
	fmt.Fprintf(w, "%-26s %d\n", config.EnvChunkOverlap, s.ChunkOverlap)
	fmt.Fprintf(w, "%-26s %d\n", config.EnvMaxTokens, s.MaxTokens)
	fmt.Fprintf(w, "%-26s %g\n", config.EnvTemperature, s.Temperature)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvDataDir, s.DataDir)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvVectorDir, s.VectorDir)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvLogFile, s.LogFile)
	fmt.Fprintf(w, "%-26s %s\n", config.EnvLogLevel, s.LogLevel)
	fmt.Fprintf(w, "%-26s %t\n", config.EnvEnableOCR, s.EnableOCR)
}

// WriteInvalidKeys lists variables whose values were ignored. Nothing is written
// when keys is empty.
func WriteInvalidKeys(w io.Writer, keys []string) {
	if len(keys) == 0 {
		return
	}
	fmt.Fprintf(w, "\nIgnored malformed values (defaults used): %s\n", strings.Join(keys, ", "))
}
