package analysis

// Severity classifies a feedback message for display.
type Severity string

const (
	// SeverityWarning flags detection, visibility or pacing problems.
	SeverityWarning Severity = "warning"
	// SeverityInstruction is in-rep movement guidance.
	SeverityInstruction Severity = "instruction"
	// SeverityEncouragement marks a completed rep.
	SeverityEncouragement Severity = "encouragement"
	// SeverityProgress is ambient status, shown only when nothing more
	// important was said this frame.
	SeverityProgress Severity = "progress"
)

// Feedback is a single coaching message.
type Feedback struct {
	Type    Severity `json:"type"`
	Message string   `json:"message"`
}

// feedbackList collects the messages emitted during one frame.
type feedbackList []Feedback

func (fl *feedbackList) warn(msg string) {
	*fl = append(*fl, Feedback{Type: SeverityWarning, Message: msg})
}

func (fl *feedbackList) instruct(msg string) {
	*fl = append(*fl, Feedback{Type: SeverityInstruction, Message: msg})
}

func (fl *feedbackList) encourage(msg string) {
	*fl = append(*fl, Feedback{Type: SeverityEncouragement, Message: msg})
}

func (fl *feedbackList) progress(msg string) {
	*fl = append(*fl, Feedback{Type: SeverityProgress, Message: msg})
}

// hasPriority reports whether any warning, instruction or encouragement was
// emitted this frame. Ambient progress messages are suppressed when true.
func (fl feedbackList) hasPriority() bool {
	for _, f := range fl {
		if f.Type != SeverityProgress {
			return true
		}
	}
	return false
}
