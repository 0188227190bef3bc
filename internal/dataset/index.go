package dataset

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultQuestionsPerFrame is the number of questions every frame carries in the
// reference dataset.
const DefaultQuestionsPerFrame = 4

var (
	ErrQuestionCount    = errors.New("unexpected number of questions in frame")
	ErrDuplicateVideo   = errors.New("duplicate video name")
	ErrVideoNotFound    = errors.New("video not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrFrameOutOfRange  = errors.New("frame index out of range")
)

// IndexOptions controls how BuildIndex treats the input.
type IndexOptions struct {
	// QuestionsPerFrame is the exact number of questions each frame must have.
	// Zero means DefaultQuestionsPerFrame.
	QuestionsPerFrame int
	// OverwriteDuplicates lets a later video replace an earlier one with the same
	// name instead of failing.
	OverwriteDuplicates bool
}

// QuestionKey returns the index key for the question at position.
func QuestionKey(position int) string {
	return fmt.Sprintf("question_%d", position)
}

// BuildIndex reshapes ds into an Index. Every answer list of a video has exactly
// one entry per frame, in frame order.
func BuildIndex(ds Dataset, opts IndexOptions) (Index, error) {
	perFrame := opts.QuestionsPerFrame
	if perFrame == 0 {
		perFrame = DefaultQuestionsPerFrame
	}
	if perFrame < 0 {
		return nil, fmt.Errorf("questions per frame must be positive, got %d", perFrame)
	}

	keys := make([]string, perFrame)
	for i := range perFrame {
		keys[i] = QuestionKey(i)
	}

	index := make(Index, len(ds))
	for _, video := range ds {
		if _, exists := index[video.Name]; exists && !opts.OverwriteDuplicates {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateVideo, video.Name)
		}

		vi := make(VideoIndex, perFrame)
		for _, key := range keys {
			vi[key] = make([]string, 0, len(video.Frames))
		}

		for frameIdx, frame := range video.Frames {
			if len(frame.Questions) != perFrame {
				return nil, fmt.Errorf("%w: video %q frame %d has %d questions, expected %d",
					ErrQuestionCount, video.Name, frameIdx, len(frame.Questions), perFrame)
			}
			for i, key := range keys {
				vi[key] = append(vi[key], frame.Questions[i].Answer)
			}
		}

		index[video.Name] = vi
	}

	return index, nil
}

// Videos returns the indexed video names in sorted order.
func (idx Index) Videos() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Video returns the index of a single video.
func (idx Index) Video(name string) (VideoIndex, error) {
	vi, ok := idx[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrVideoNotFound, name)
	}
	return vi, nil
}

// Answers returns the per-frame answers of the question at position.
func (idx Index) Answers(video string, position int) ([]string, error) {
	vi, err := idx.Video(video)
	if err != nil {
		return nil, err
	}
	answers, ok := vi[QuestionKey(position)]
	if !ok {
		return nil, fmt.Errorf("%w: %s in video %q", ErrQuestionNotFound, QuestionKey(position), video)
	}
	return answers, nil
}

// Answer returns the answer to the question at position for a single frame.
func (idx Index) Answer(video string, position, frame int) (string, error) {
	answers, err := idx.Answers(video, position)
	if err != nil {
		return "", err
	}
	if frame < 0 || frame >= len(answers) {
		return "", fmt.Errorf("%w: frame %d of video %q (has %d frames)", ErrFrameOutOfRange, frame, video, len(answers))
	}
	return answers[frame], nil
}

// FrameCount returns the number of frames indexed for video.
func (idx Index) FrameCount(video string) (int, error) {
	answers, err := idx.Answers(video, 0)
	if err != nil {
		return 0, err
	}
	return len(answers), nil
}
