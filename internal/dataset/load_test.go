package dataset

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestLoad_Sample(t *testing.T) {
	ds, err := Load("testdata/sample.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(ds) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(ds))
	}

	if ds[0].Name != "0.mp4" {
		t.Errorf("expected first video '0.mp4', got '%s'", ds[0].Name)
	}

	if len(ds[0].Frames) != 3 {
		t.Errorf("expected 3 frames, got %d", len(ds[0].Frames))
	}

	if ds[0].Frames[0].Questions[0].Question != "What food is on the plate?" {
		t.Errorf("unexpected question text: %q", ds[0].Frames[0].Questions[0].Question)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does_not_exist.json")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load("testdata/malformed.json")
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "malformed.json") {
		t.Errorf("expected error to name the file, got %v", err)
	}
}

func TestParse_WrongShape(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"video_name": "0.mp4"}`))
	if err == nil {
		t.Error("expected error when top level is not an array")
	}
}

func TestParse_IgnoresUnknownFields(t *testing.T) {
	raw := `[{"video_name":"v","fps":30,"frames":[{"timestamp":1.5,"questions":[{"answer":"a","score":1}]}]}]`

	ds, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ds[0].Frames[0].Questions[0].Answer != "a" {
		t.Errorf("expected answer 'a', got %q", ds[0].Frames[0].Questions[0].Answer)
	}
}
