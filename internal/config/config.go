// Package config loads the research assistant settings from the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingRequired is matched by errors.Is for any missing required variable.
var ErrMissingRequired = errors.New("required setting missing")

// Error is a configuration error naming the offending variable.
type Error struct {
	Key string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s is missing. Add it to your .env file.", e.Key)
}

// Is reports whether target is ErrMissingRequired.
func (e *Error) Is(target error) bool {
	return target == ErrMissingRequired
}

// Settings holds every configurable value for one process run.
// It is returned by value; treat it as read-only after Load.
type Settings struct {
	// Auth
	HFToken string `yaml:"hf_token" json:"hf_token"`

	// Models
	ModelID        string `yaml:"model_id" json:"model_id"`
	EmbeddingModel string `yaml:"embedding_model" json:"embedding_model"`

	// Retrieval
	TopK         int `yaml:"top_k" json:"top_k"`
	ChunkSize    int `yaml:"chunk_size" json:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`

	// Generation
	MaxTokens   int     `yaml:"max_tokens" json:"max_tokens"`
	Temperature float64 `yaml:"temperature" json:"temperature"`

	// Paths
	DataDir   string `yaml:"data_dir" json:"data_dir"`
	VectorDir string `yaml:"vector_dir" json:"vector_dir"`
	LogFile   string `yaml:"log_file" json:"log_file"`
	LogLevel  string `yaml:"log_level" json:"log_level"`

	EnableOCR bool `yaml:"enable_ocr" json:"enable_ocr"`

	invalid []string
}

// InvalidKeys returns the variables that were set but could not be parsed and
// therefore took their default value.
func (s Settings) InvalidKeys() []string {
	if len(s.invalid) == 0 {
		return nil
	}
	out := make([]string, len(s.invalid))
	copy(out, s.invalid)
	return out
}

// Redacted returns a copy of s with the token masked, for display.
func (s Settings) Redacted() Settings {
	s.HFToken = MaskSecret(s.HFToken)
	s.invalid = s.InvalidKeys()
	return s
}

// MaskSecret keeps the first 10 characters of secret and elides the rest.
// Secrets of 10 characters or fewer are hidden entirely.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 10 {
		return "***"
	}
	return secret[:10] + "..."
}

// Load merges envFiles (DefaultEnvFile when none are given) into the process
// environment and reads Settings from it. Variables already set in the
// environment take precedence over file values; a missing file is skipped.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Settings{}, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// MustLoad loads settings or panics.
func MustLoad(envFiles ...string) Settings {
	s, err := Load(envFiles...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromEnv builds Settings from lookup. It has no side effects.
func FromEnv(lookup LookupFunc) (Settings, error) {
	token, _ := lookup(EnvHFToken)
	token = strings.TrimSpace(token)
	if token == "" {
		return Settings{}, &Error{Key: EnvHFToken}
	}

	var invalid []string
	intVar := func(key string, def int) int {
		raw, ok := lookup(key)
		v := Int(raw, ok, def)
		if v.Source == SourceInvalid {
			invalid = append(invalid, key)
		}
		return v.Value
	}
	floatVar := func(key string, def float64) float64 {
		raw, ok := lookup(key)
		v := Float(raw, ok, def)
		if v.Source == SourceInvalid {
			invalid = append(invalid, key)
		}
		return v.Value
	}
	ocrRaw, ocrSet := lookup(EnvEnableOCR)

	s := Settings{
		HFToken:        token,
		ModelID:        stringVar(lookup, EnvModelID, DefaultModelID, true),
		EmbeddingModel: stringVar(lookup, EnvEmbeddingModel, DefaultEmbeddingModel, true),
		TopK:           intVar(EnvTopK, DefaultTopK),
		ChunkSize:      intVar(EnvChunkSize, DefaultChunkSize),
		ChunkOverlap:   intVar(EnvChunkOverlap, DefaultChunkOverlap),
		MaxTokens:      intVar(EnvMaxTokens, DefaultMaxTokens),
		Temperature:    floatVar(EnvTemperature, DefaultTemperature),
		DataDir:        stringVar(lookup, EnvDataDir, DefaultDataDir, false),
		VectorDir:      stringVar(lookup, EnvVectorDir, DefaultVectorDir, false),
		LogFile:        stringVar(lookup, EnvLogFile, DefaultLogFile, false),
		LogLevel:       stringVar(lookup, EnvLogLevel, DefaultLogLevel, true),
		EnableOCR:      Bool(ocrRaw, ocrSet, DefaultEnableOCR).Value,
	}
	s.invalid = invalid
	return s, nil
}

// stringVar returns the variable or def when it is absent or empty.
// Paths are kept verbatim; identifiers are trimmed.
func stringVar(lookup LookupFunc, key, def string, trim bool) string {
	v, ok := lookup(key)
	if trim {
		v = strings.TrimSpace(v)
	}
	if !ok || v == "" {
		return def
	}
	return v
}
