// Package replay drives recorded joint-frame sessions through the analysis
// engine offline. Recordings are JSONL: one frame per line, each carrying the
// capture timestamp (unix seconds) and the named joint positions.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/claude/kinetik/internal/analysis"
)

// Frame is one recorded line of a JSONL recording. An empty Joints map
// replays as a missed pose detection.
type Frame struct {
	Timestamp float64             `json:"timestamp"`
	Joints    analysis.JointFrame `json:"joints"`
}

// ReadRecording parses a JSONL recording. Blank lines are skipped.
func ReadRecording(r io.Reader) ([]Frame, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var frames []Frame
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}
