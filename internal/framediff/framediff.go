package framediff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kozaktomas/frame-diff/internal/ai"
	"github.com/kozaktomas/frame-diff/internal/dataset"
)

var ErrNotEnoughFrames = errors.New("video needs at least two frames")

type Differ struct {
	index     dataset.Index
	generator *ai.Generator
	logger    *slog.Logger
}

// Request selects two frames of one video and the question whose answers
// describe them.
type Request struct {
	Video    string `json:"video"`
	Question int    `json:"question"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

type Result struct {
	ID          string              `json:"id"`
	Video       string              `json:"video"`
	Question    string              `json:"question"`
	From        int                 `json:"from"`
	To          int                 `json:"to"`
	FromAnswer  string              `json:"from_answer"`
	ToAnswer    string              `json:"to_answer"`
	Prompts     []string            `json:"prompts"`
	Predictions []ai.ChatPrediction `json:"predictions"`
	Provider    string              `json:"provider"`
}

// ProgressInfo contains progress information for callbacks
type ProgressInfo struct {
	Current int
	Total   int
	From    int
	To      int
}

type SweepRequest struct {
	Video      string
	Question   int
	OnProgress func(ProgressInfo) // Optional progress callback
}

type SweepResult struct {
	Video    string    `json:"video"`
	Question string    `json:"question"`
	Results  []*Result `json:"results"`
}

func New(index dataset.Index, generator *ai.Generator, logger *slog.Logger) *Differ {
	if logger == nil {
		logger = slog.Default()
	}
	return &Differ{
		index:     index,
		generator: generator,
		logger:    logger,
	}
}

// Prompts returns the prompt set for req without calling the model.
func (d *Differ) Prompts(req Request) ([]string, error) {
	from, to, err := d.answers(req)
	if err != nil {
		return nil, err
	}
	return ai.BuildFrameDiffPrompts(from, to), nil
}

// Diff asks the model to describe what changed between two frames.
func (d *Differ) Diff(ctx context.Context, req Request) (*Result, error) {
	fromAnswer, toAnswer, err := d.answers(req)
	if err != nil {
		return nil, err
	}

	prompts := ai.BuildFrameDiffPrompts(fromAnswer, toAnswer)
	d.logger.Debug("requesting frame diff",
		"video", req.Video,
		"question", req.Question,
		"from", req.From,
		"to", req.To,
		"provider", d.generator.Provider().Name())

	predictions, err := d.generator.ChatCompletion(ctx, []ai.Dialog{ai.DialogFromPrompts(prompts)})
	if err != nil {
		return nil, fmt.Errorf("frame diff %s %d->%d: %w", req.Video, req.From, req.To, err)
	}

	return &Result{
		ID:          uuid.NewString(),
		Video:       req.Video,
		Question:    dataset.QuestionKey(req.Question),
		From:        req.From,
		To:          req.To,
		FromAnswer:  fromAnswer,
		ToAnswer:    toAnswer,
		Prompts:     prompts,
		Predictions: predictions,
		Provider:    d.generator.Provider().Name(),
	}, nil
}

// Sweep diffs every pair of consecutive frames of a video in order and stops
// at the first failure.
func (d *Differ) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	frames, err := d.index.FrameCount(req.Video)
	if err != nil {
		return nil, err
	}
	if frames < 2 {
		return nil, fmt.Errorf("%w: %q has %d", ErrNotEnoughFrames, req.Video, frames)
	}
	if _, err := d.index.Answers(req.Video, req.Question); err != nil {
		return nil, err
	}

	total := frames - 1
	result := &SweepResult{
		Video:    req.Video,
		Question: dataset.QuestionKey(req.Question),
		Results:  make([]*Result, 0, total),
	}
	for i := range total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := d.Diff(ctx, Request{
			Video:    req.Video,
			Question: req.Question,
			From:     i,
			To:       i + 1,
		})
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, res)

		if req.OnProgress != nil {
			req.OnProgress(ProgressInfo{Current: i + 1, Total: total, From: i, To: i + 1})
		}
	}

	d.logger.Info("sweep finished", "video", req.Video, "pairs", total)
	return result, nil
}

func (d *Differ) answers(req Request) (string, string, error) {
	from, err := d.index.Answer(req.Video, req.Question, req.From)
	if err != nil {
		return "", "", err
	}
	to, err := d.index.Answer(req.Video, req.Question, req.To)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}
