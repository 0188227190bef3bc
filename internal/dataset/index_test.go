package dataset

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// Helper functions for building datasets

func frameWithAnswers(answers ...string) Frame {
	questions := make([]Question, len(answers))
	for i, a := range answers {
		questions[i] = Question{Answer: a}
	}
	return Frame{Questions: questions}
}

func mustBuild(t *testing.T, ds Dataset, opts IndexOptions) Index {
	t.Helper()
	idx, err := BuildIndex(ds, opts)
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	return idx
}

// --- BuildIndex tests ---

func TestBuildIndex_Scenario(t *testing.T) {
	raw := `[{"video_name":"0.mp4","frames":[` +
		`{"questions":[{"answer":"cat"},{"answer":"x"},{"answer":"y"},{"answer":"z"}]},` +
		`{"questions":[{"answer":"dog"},{"answer":"x2"},{"answer":"y2"},{"answer":"z2"}]}]}]`

	ds, err := Parse(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	idx := mustBuild(t, ds, IndexOptions{})

	expected := Index{
		"0.mp4": VideoIndex{
			"question_0": {"cat", "dog"},
			"question_1": {"x", "x2"},
			"question_2": {"y", "y2"},
			"question_3": {"z", "z2"},
		},
	}
	if !reflect.DeepEqual(idx, expected) {
		t.Errorf("unexpected index:\n got: %v\nwant: %v", idx, expected)
	}
}

func TestBuildIndex_JSONShape(t *testing.T) {
	ds := Dataset{{Name: "0.mp4", Frames: []Frame{frameWithAnswers("cat", "x", "y", "z")}}}

	idx := mustBuild(t, ds, IndexOptions{})

	data, err := json.Marshal(idx)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	expected := `{"0.mp4":{"question_0":["cat"],"question_1":["x"],"question_2":["y"],"question_3":["z"]}}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, string(data))
	}
}

func TestBuildIndex_EmptyFrames(t *testing.T) {
	ds := Dataset{{Name: "empty.mp4", Frames: []Frame{}}}

	idx := mustBuild(t, ds, IndexOptions{})

	vi, ok := idx["empty.mp4"]
	if !ok {
		t.Fatal("expected entry for empty.mp4")
	}
	if len(vi) != 4 {
		t.Fatalf("expected 4 question lists, got %d", len(vi))
	}
	for key, answers := range vi {
		if answers == nil {
			t.Errorf("expected empty non-nil list for %s", key)
		}
		if len(answers) != 0 {
			t.Errorf("expected no answers for %s, got %d", key, len(answers))
		}
	}

	// Empty lists must encode as [] rather than null
	data, err := json.Marshal(vi)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("expected empty arrays, got %s", string(data))
	}
}

func TestBuildIndex_NilFrames(t *testing.T) {
	ds := Dataset{{Name: "nil.mp4"}}

	idx := mustBuild(t, ds, IndexOptions{})

	if len(idx["nil.mp4"]) != 4 {
		t.Errorf("expected 4 question lists, got %d", len(idx["nil.mp4"]))
	}
}

func TestBuildIndex_LengthEqualsFrameCount(t *testing.T) {
	tests := []struct {
		name   string
		frames int
	}{
		{"zero frames", 0},
		{"one frame", 1},
		{"two frames", 2},
		{"many frames", 37},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frames := make([]Frame, tc.frames)
			for i := range frames {
				frames[i] = frameWithAnswers("a", "b", "c", "d")
			}
			idx := mustBuild(t, Dataset{{Name: "v", Frames: frames}}, IndexOptions{})

			for p := range DefaultQuestionsPerFrame {
				if got := len(idx["v"][QuestionKey(p)]); got != tc.frames {
					t.Errorf("position %d: expected %d answers, got %d", p, tc.frames, got)
				}
			}
		})
	}
}

func TestBuildIndex_PreservesFrameOrder(t *testing.T) {
	ds := Dataset{{Name: "v", Frames: []Frame{
		frameWithAnswers("3", "x", "x", "x"),
		frameWithAnswers("1", "x", "x", "x"),
		frameWithAnswers("2", "x", "x", "x"),
		frameWithAnswers("1", "x", "x", "x"),
	}}}

	idx := mustBuild(t, ds, IndexOptions{})

	expected := []string{"3", "1", "2", "1"}
	if !reflect.DeepEqual(idx["v"]["question_0"], expected) {
		t.Errorf("expected %v (no sorting or dedup), got %v", expected, idx["v"]["question_0"])
	}
}

func TestBuildIndex_EmptyAnswersKept(t *testing.T) {
	ds := Dataset{{Name: "v", Frames: []Frame{frameWithAnswers("", "", "", "")}}}

	idx := mustBuild(t, ds, IndexOptions{})

	if len(idx["v"]["question_2"]) != 1 || idx["v"]["question_2"][0] != "" {
		t.Errorf("expected single empty answer, got %v", idx["v"]["question_2"])
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	ds, err := Load("testdata/sample.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	first := mustBuild(t, ds, IndexOptions{})
	second := mustBuild(t, ds, IndexOptions{})

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical indexes from the same dataset")
	}
}

func TestBuildIndex_DoesNotAliasDataset(t *testing.T) {
	ds := Dataset{{Name: "v", Frames: []Frame{frameWithAnswers("a", "b", "c", "d")}}}

	idx := mustBuild(t, ds, IndexOptions{})
	ds[0].Frames[0].Questions[0].Answer = "changed"

	if idx["v"]["question_0"][0] != "a" {
		t.Errorf("index should not change when dataset is modified, got %q", idx["v"]["question_0"][0])
	}
}

func TestBuildIndex_TooFewQuestions(t *testing.T) {
	ds, err := Load("testdata/missing_question.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	_, err = BuildIndex(ds, IndexOptions{})
	if err == nil {
		t.Fatal("expected error for frame with 3 questions")
	}
	if !errors.Is(err, ErrQuestionCount) {
		t.Errorf("expected ErrQuestionCount, got %v", err)
	}
	if !strings.Contains(err.Error(), "broken.mp4") {
		t.Errorf("expected error to name the video, got %v", err)
	}
	if !strings.Contains(err.Error(), "frame 0") {
		t.Errorf("expected error to name the frame, got %v", err)
	}
}

func TestBuildIndex_TooManyQuestions(t *testing.T) {
	ds := Dataset{{Name: "v", Frames: []Frame{frameWithAnswers("a", "b", "c", "d", "e")}}}

	_, err := BuildIndex(ds, IndexOptions{})
	if !errors.Is(err, ErrQuestionCount) {
		t.Errorf("expected ErrQuestionCount, got %v", err)
	}
}

func TestBuildIndex_CustomQuestionsPerFrame(t *testing.T) {
	ds := Dataset{{Name: "v", Frames: []Frame{
		frameWithAnswers("a", "b"),
		frameWithAnswers("c", "d"),
	}}}

	idx := mustBuild(t, ds, IndexOptions{QuestionsPerFrame: 2})

	if len(idx["v"]) != 2 {
		t.Errorf("expected 2 question lists, got %d", len(idx["v"]))
	}
	if !reflect.DeepEqual(idx["v"]["question_1"], []string{"b", "d"}) {
		t.Errorf("unexpected answers: %v", idx["v"]["question_1"])
	}
}

func TestBuildIndex_NegativeQuestionsPerFrame(t *testing.T) {
	_, err := BuildIndex(Dataset{}, IndexOptions{QuestionsPerFrame: -1})
	if err == nil {
		t.Error("expected error for negative questions per frame")
	}
}

func TestBuildIndex_DuplicateVideoRejected(t *testing.T) {
	ds := Dataset{
		{Name: "dup.mp4", Frames: []Frame{frameWithAnswers("first", "x", "x", "x")}},
		{Name: "dup.mp4", Frames: []Frame{frameWithAnswers("second", "x", "x", "x")}},
	}

	_, err := BuildIndex(ds, IndexOptions{})
	if !errors.Is(err, ErrDuplicateVideo) {
		t.Errorf("expected ErrDuplicateVideo, got %v", err)
	}
}

func TestBuildIndex_DuplicateVideoOverwrite(t *testing.T) {
	ds := Dataset{
		{Name: "dup.mp4", Frames: []Frame{frameWithAnswers("first", "x", "x", "x")}},
		{Name: "dup.mp4", Frames: []Frame{
			frameWithAnswers("second", "x", "x", "x"),
			frameWithAnswers("third", "x", "x", "x"),
		}},
	}

	idx := mustBuild(t, ds, IndexOptions{OverwriteDuplicates: true})

	expected := []string{"second", "third"}
	if !reflect.DeepEqual(idx["dup.mp4"]["question_0"], expected) {
		t.Errorf("expected later video to win with %v, got %v", expected, idx["dup.mp4"]["question_0"])
	}
}

func TestBuildIndex_EmptyDataset(t *testing.T) {
	idx := mustBuild(t, Dataset{}, IndexOptions{})

	if len(idx) != 0 {
		t.Errorf("expected empty index, got %d entries", len(idx))
	}
}

// --- Lookup tests ---

func TestIndex_Lookups(t *testing.T) {
	ds, err := Load("testdata/sample.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	idx := mustBuild(t, ds, IndexOptions{})

	videos := idx.Videos()
	if !reflect.DeepEqual(videos, []string{"0.mp4", "1.mp4"}) {
		t.Errorf("unexpected videos: %v", videos)
	}

	answer, err := idx.Answer("0.mp4", 0, 1)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer != "A bowl of oatmeal with a few banana slices." {
		t.Errorf("unexpected answer: %q", answer)
	}

	count, err := idx.FrameCount("0.mp4")
	if err != nil {
		t.Fatalf("FrameCount failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 frames, got %d", count)
	}

	count, err = idx.FrameCount("1.mp4")
	if err != nil {
		t.Fatalf("FrameCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 frames, got %d", count)
	}
}

func TestIndex_LookupErrors(t *testing.T) {
	idx := mustBuild(t, Dataset{{Name: "v", Frames: []Frame{frameWithAnswers("a", "b", "c", "d")}}}, IndexOptions{})

	tests := []struct {
		name     string
		video    string
		position int
		frame    int
		want     error
	}{
		{"unknown video", "missing.mp4", 0, 0, ErrVideoNotFound},
		{"unknown question", "v", 4, 0, ErrQuestionNotFound},
		{"negative question", "v", -1, 0, ErrQuestionNotFound},
		{"frame past end", "v", 0, 1, ErrFrameOutOfRange},
		{"negative frame", "v", 0, -1, ErrFrameOutOfRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := idx.Answer(tc.video, tc.position, tc.frame)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuestionKey(t *testing.T) {
	if got := QuestionKey(0); got != "question_0" {
		t.Errorf("expected question_0, got %s", got)
	}
	if got := QuestionKey(3); got != "question_3" {
		t.Errorf("expected question_3, got %s", got)
	}
}
