// Package cli provides common CLI utilities for the ringbuf command-line tools.
//
// This package includes:
//   - Configuration management (named buffer profiles)
//   - Output formatting (JSON, YAML, tables, raw)
//   - Plan file loading (YAML/JSON)
//   - Terminal frames for live views and reports
//
// Configuration is stored in ~/.ringbuf/<app>/ directory, supporting
// multiple profiles similar to kubectl contexts.
//
// Example usage:
//
//	// Initialize config for your app
//	cfg, err := cli.LoadConfig("ringbuf")
//
//	// Resolve the active profile, falling back to defaults
//	p, err := cfg.ResolveProfile("")
//
//	// Output result
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
