package plan

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// InvalidPlanError reports a document that failed validation, keeping the
// per-field problems so callers can render them.
type InvalidPlanError struct {
	Source   string
	Document int
	Result   *ValidationResult
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("validation failed for document %d in %s: %s", e.Document, e.Source, e.Result.Error())
}

// Loader loads and validates batch plan files.
type Loader struct {
	validator *Validator
}

// NewLoader creates a loader with default validation limits.
func NewLoader() *Loader {
	return &Loader{validator: NewValidator()}
}

// LoadFile loads batch plans from a YAML file.
// Supports multi-document YAML (separated by ---).
func (l *Loader) LoadFile(path string) ([]BatchPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return l.LoadReader(f, path)
}

// LoadReader loads batch plans from a reader.
func (l *Loader) LoadReader(r io.Reader, source string) ([]BatchPlan, error) {
	decoder := yaml.NewDecoder(r)
	var plans []BatchPlan

	docIndex := 0
	for {
		var p BatchPlan
		err := decoder.Decode(&p)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode YAML document %d in %s: %w", docIndex, source, err)
		}

		if result := l.validator.Validate(&p); !result.Valid {
			return nil, &InvalidPlanError{Source: source, Document: docIndex, Result: result}
		}

		plans = append(plans, p)
		docIndex++
	}

	if len(plans) == 0 {
		return nil, fmt.Errorf("no batch plans found in %s", source)
	}

	return plans, nil
}

// LoadDirectory loads all YAML files from a directory.
func (l *Loader) LoadDirectory(dir string) ([]BatchPlan, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var allPlans []BatchPlan

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		plans, err := l.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}

		allPlans = append(allPlans, plans...)
	}

	if len(allPlans) == 0 {
		return nil, fmt.Errorf("no batch plans found in %s", dir)
	}

	return allPlans, nil
}

// Load loads from a path (file or directory).
func (l *Loader) Load(path string) ([]BatchPlan, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if info.IsDir() {
		return l.LoadDirectory(path)
	}
	return l.LoadFile(path)
}
