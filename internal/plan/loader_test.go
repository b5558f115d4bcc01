package plan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const planDoc = `apiVersion: txforge/v1
kind: BatchPlan
metadata:
  name: weekly-rebalance
spec:
  tokens:
    - "0x6b175474e89094c44da98b954eedeac495271d0f"
  calls:
    - target: "0x1111111111111111111111111111111111111111"
      calldata: "0xa9059cbb"
`

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "plan.yaml")

	if err := os.WriteFile(yamlPath, []byte(planDoc), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	plans, err := loader.LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(plans) != 1 {
		t.Fatalf("expected 1 plan, got %d", len(plans))
	}

	if plans[0].Metadata.Name != "weekly-rebalance" {
		t.Errorf("expected name weekly-rebalance, got %s", plans[0].Metadata.Name)
	}
	if len(plans[0].Spec.Calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(plans[0].Spec.Calls))
	}
}

func TestLoader_LoadFile_MultiDocument(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "plans.yaml")

	content := planDoc + "---\n" + strings.Replace(planDoc, "weekly-rebalance", "approvals", 1)
	if err := os.WriteFile(yamlPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	plans, err := loader.LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}

	if plans[0].Metadata.Name != "weekly-rebalance" {
		t.Errorf("expected first name weekly-rebalance, got %s", plans[0].Metadata.Name)
	}
	if plans[1].Metadata.Name != "approvals" {
		t.Errorf("expected second name approvals, got %s", plans[1].Metadata.Name)
	}
}

func TestLoader_LoadFile_ValidationError(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "invalid.yaml")

	content := `apiVersion: txforge/v1
kind: BatchPlan
metadata:
  name: ""
spec:
  calls:
    - target: "0x1111111111111111111111111111111111111111"
`
	if err := os.WriteFile(yamlPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadFile(yamlPath)
	if err == nil {
		t.Fatal("LoadFile should fail for an invalid plan")
	}
	if !strings.Contains(err.Error(), "metadata.name") {
		t.Errorf("error should name the failing field, got %v", err)
	}

	var invalid *InvalidPlanError
	if !errors.As(err, &invalid) {
		t.Fatalf("error should unwrap to *InvalidPlanError, got %T", err)
	}
	if invalid.Source != yamlPath {
		t.Errorf("InvalidPlanError.Source = %q, want %q", invalid.Source, yamlPath)
	}
}

func TestLoader_LoadFile_MalformedYAML(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "broken.yaml")

	if err := os.WriteFile(yamlPath, []byte("kind: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadFile(yamlPath)
	if err == nil {
		t.Error("LoadFile should fail for malformed YAML")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "empty.yaml")

	if err := os.WriteFile(yamlPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	_, err := loader.LoadFile(yamlPath)
	if err == nil {
		t.Error("LoadFile should fail when the file holds no plans")
	}
}

func TestLoader_LoadDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "a.yaml"), []byte(planDoc), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	second := strings.Replace(planDoc, "weekly-rebalance", "second", 1)
	if err := os.WriteFile(filepath.Join(tmpDir, "b.yml"), []byte(second), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()
	plans, err := loader.LoadDirectory(tmpDir)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}

	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
}

func TestLoader_Load_FileOrDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "plan.yaml")
	if err := os.WriteFile(yamlPath, []byte(planDoc), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	loader := NewLoader()

	fromFile, err := loader.Load(yamlPath)
	if err != nil {
		t.Fatalf("Load(file) failed: %v", err)
	}
	fromDir, err := loader.Load(tmpDir)
	if err != nil {
		t.Fatalf("Load(dir) failed: %v", err)
	}

	if len(fromFile) != 1 || len(fromDir) != 1 {
		t.Errorf("expected 1 plan from each path, got %d and %d", len(fromFile), len(fromDir))
	}

	if _, err := loader.Load(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("Load should fail for a missing path")
	}
}
