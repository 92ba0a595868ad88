package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kadraa-png/yt-fetch/internal/config"
)

func TestGatherInputsSingle(t *testing.T) {
	o := config.NewOptions()
	o.Single = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

	inputs, err := gatherInputs(o)
	if err != nil {
		t.Fatalf("gatherInputs() error = %v", err)
	}
	if len(inputs) != 1 || inputs[0] != o.Single {
		t.Errorf("gatherInputs() = %v, want [%s]", inputs, o.Single)
	}
}

func TestGatherInputsSingleWithSearch(t *testing.T) {
	o := config.NewOptions()
	o.Single = "never gonna give you up"
	o.Search = "take on me"
	o.Top = 3

	inputs, err := gatherInputs(o)
	if err != nil {
		t.Fatalf("gatherInputs() error = %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("gatherInputs() returned %d inputs, want 2", len(inputs))
	}
	if inputs[0] != "ytsearch3:never gonna give you up" {
		t.Errorf("first input = %q", inputs[0])
	}
	if inputs[1] != "ytsearch3:take on me" {
		t.Errorf("second input = %q", inputs[1])
	}
}

func TestGatherInputsBulkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	content := "https://youtu.be/abc12345678\n\n# comment\nsome search query\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	o := config.NewOptions()
	o.BulkFile = path

	inputs, err := gatherInputs(o)
	if err != nil {
		t.Fatalf("gatherInputs() error = %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("gatherInputs() returned %d inputs, want 2", len(inputs))
	}
	if inputs[0] != "https://youtu.be/abc12345678" {
		t.Errorf("first input = %q", inputs[0])
	}
	if inputs[1] != "ytsearch1:some search query" {
		t.Errorf("second input = %q", inputs[1])
	}
}

func TestGatherInputsMissingBulkFile(t *testing.T) {
	o := config.NewOptions()
	o.BulkFile = filepath.Join(t.TempDir(), "does-not-exist.txt")

	_, err := gatherInputs(o)
	if err == nil {
		t.Fatal("gatherInputs() expected error for missing bulk file")
	}

	var ue *usageError
	if !errors.As(err, &ue) {
		t.Errorf("gatherInputs() error = %T, want *usageError", err)
	}
}

func TestGatherInputsEmptyBulkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n# only comments\n"), 0644); err != nil {
		t.Fatal(err)
	}

	o := config.NewOptions()
	o.BulkFile = path

	_, err := gatherInputs(o)
	var ue *usageError
	if !errors.As(err, &ue) {
		t.Errorf("gatherInputs() error = %v, want *usageError", err)
	}
}

func TestUsageErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &usageError{err: inner}

	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("errors.Is() should match the wrapped error")
	}
}
