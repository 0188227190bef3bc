package dataset

// Question is a single question/answer pair attached to a frame.
type Question struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer"`
}

// Frame is one sampled time point of a video.
type Frame struct {
	Questions []Question `json:"questions"`
}

// Video is a named, ordered sequence of frames.
type Video struct {
	Name   string  `json:"video_name"`
	Frames []Frame `json:"frames"`
}

// Dataset is the decoded input document. It is treated as read-only once loaded.
type Dataset []Video

// VideoIndex maps a question key ("question_0", ...) to the answers of that
// question, one entry per frame in frame order.
type VideoIndex map[string][]string

// Index maps a video name to its VideoIndex.
type Index map[string]VideoIndex
