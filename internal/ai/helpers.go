package ai

import (
	_ "embed"
	"strings"
)

//go:embed prompts/frame_diff.txt
var frameDiffPrompt string

// BuildFrameDiffPrompts returns the three prompts asking the model to compare two
// frame descriptions: the task statement, then each frame in order.
// This is shared across all AI providers.
func BuildFrameDiffPrompts(frame1, frame2 string) []string {
	return []string{
		strings.TrimSpace(frameDiffPrompt),
		"This is frame #1: " + frame1,
		"This is frame #2: " + frame2,
	}
}

// DialogFromPrompts turns an ordered prompt set into a single dialog of user turns.
func DialogFromPrompts(prompts []string) Dialog {
	dialog := make(Dialog, len(prompts))
	for i, p := range prompts {
		dialog[i] = Message{Role: RoleUser, Content: p}
	}
	return dialog
}
