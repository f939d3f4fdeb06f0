// Package output renders planning results as text, JSON, YAML or CSV, to
// stdout or to a file in an output directory.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "yaml", "csv"}

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Name is the file name, without extension, used when OutputDir is set
	Name string
}

// Generate renders result and prints it, or saves it under OutputDir
func Generate(result interface{}, config Config) error {
	return GenerateTo(os.Stdout, result, config)
}

// GenerateTo renders result to w, or saves it under OutputDir and reports
// the path on w when verbose
func GenerateTo(w io.Writer, result interface{}, config Config) error {
	if config.OutputDir == "" {
		return Render(w, result, config.Format)
	}

	var buf bytes.Buffer
	if err := Render(&buf, result, config.Format); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	name := config.Name
	if name == "" {
		name = "results"
	}
	filename := filepath.Join(config.OutputDir, name+"."+extension(config.Format))
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
	}
	return nil
}

// Render writes result to w in the given format
func Render(w io.Writer, result interface{}, format string) error {
	switch format {
	case "text", "":
		return renderText(w, result)
	case "json":
		return renderJSON(w, result)
	case "yaml":
		return renderYAML(w, result)
	case "csv":
		return renderCSV(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func extension(format string) string {
	switch format {
	case "", "text":
		return "txt"
	default:
		return format
	}
}

func renderJSON(w io.Writer, result interface{}) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func renderYAML(w io.Writer, result interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return encoder.Close()
}
