// Package main is the ragassist CLI entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/hyperjump/ragassist/internal/cli"
	"github.com/hyperjump/ragassist/internal/config"
	"github.com/hyperjump/ragassist/internal/logger"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "check":
		runCheck()
	case "settings":
		runSettings()
	case "logtest":
		runLogTest()
	case "version", "--version", "-v":
		fmt.Printf("ragassist version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCheck() {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	envFile := fs.String("env", config.DefaultEnvFile, "environment file merged before reading variables")
	_ = fs.Parse(os.Args[2:])

	if err := checkSettings(os.Stdout, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Config check failed: %v\n", err)
		os.Exit(1)
	}
}

// checkSettings loads settings and writes a short redacted summary to w.
func checkSettings(w io.Writer, envFile string) error {
	settings, err := config.Load(envFile)
	if err != nil {
		return err
	}
	r := settings.Redacted()
	fmt.Fprintln(w, "Config loaded successfully!")
	fmt.Fprintf(w, "HF_TOKEN:         %s\n", r.HFToken)
	fmt.Fprintf(w, "MODEL_ID:         %s\n", r.ModelID)
	fmt.Fprintf(w, "EMBEDDING_MODEL:  %s\n", r.EmbeddingModel)
	fmt.Fprintf(w, "TOP_K:            %d\n", r.TopK)
	fmt.Fprintf(w, "ENABLE_OCR:       %t\n", r.EnableOCR)
	cli.WriteInvalidKeys(w, settings.InvalidKeys())
	return nil
}

func runSettings() {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	envFile := fs.String("env", config.DefaultEnvFile, "environment file merged before reading variables")
	outputFormat := fs.String("format", "text", "output format: text, json or yaml")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	settings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSettings(os.Stdout, settings, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runLogTest() {
	fs := flag.NewFlagSet("logtest", flag.ExitOnError)
	envFile := fs.String("env", config.DefaultEnvFile, "environment file merged before reading variables")
	name := fs.String("name", "ragassist", "logger name")
	_ = fs.Parse(os.Args[2:])

	settings, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		os.Exit(1)
	}
	if err := logTest(os.Stdout, logger.NewFactory(settings), settings, *name); err != nil {
		fmt.Fprintf(os.Stderr, "Logger test failed: %v\n", err)
		os.Exit(1)
	}
}

// logTest writes one entry per severity through a logger from factory and
// verifies the log file was created. The factory is closed before returning.
func logTest(w io.Writer, factory *logger.Factory, settings config.Settings, name string) (err error) {
	defer func() {
		if cerr := factory.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	log, err := factory.Get(name)
	if err != nil {
		return err
	}
	log.Info("Logger initialized successfully.",
		zap.String("model_id", settings.ModelID),
		zap.String("log_level", settings.LogLevel),
	)
	log.Warn("Test warning message.")
	log.Error("Test error message.")
	if err := factory.Sync(); err != nil {
		return fmt.Errorf("failed to flush logs: %w", err)
	}

	if _, err := os.Stat(settings.LogFile); err != nil {
		return fmt.Errorf("log file was not created: %w", err)
	}
	fmt.Fprintf(w, "Logger works! Entries written to %s\n", settings.LogFile)
	return nil
}

func printUsage() {
	fmt.Println(`ragassist - Research assistant configuration and logging shell

Usage:
  ragassist check [flags]      Load settings and print a redacted summary
  ragassist settings [flags]   Print every effective setting
  ragassist logtest [flags]    Write test entries to the console and log file
  ragassist version            Show version
  ragassist help               Show this help

Common Flags:
  --env string       Environment file merged before reading variables (default: .env)

Settings Flags:
  --format string    Output format: text, json or yaml (default: text)

Logtest Flags:
  --name string      Logger name (default: ragassist)

Environment:
  HUGGINGFACEHUB_API_TOKEN  required
  MODEL_ID, EMBEDDING_MODEL, TOP_K, CHUNK_SIZE, CHUNK_OVERLAP, MAX_TOKENS,
  TEMPERATURE, DATA_DIR, VECTOR_DIR, LOG_FILE, LOG_LEVEL, ENABLE_OCR

Examples:
  ragassist check
  ragassist settings --format yaml
  ragassist logtest --name ingest`)
}
