// Package pose wraps the external pose-estimation model service. The model
// is not documented as reentrant, so the client serializes calls: at most one
// estimation is in flight per process.
package pose

import (
	"context"
	"errors"

	"github.com/claude/kinetik/internal/analysis"
)

// Result is one frame of estimator output.
type Result struct {
	// Joints is the named subset of landmarks the analyzer tracks.
	Joints analysis.JointFrame
	// Landmarks is the full ordered landmark list, for overlay drawing.
	Landmarks []analysis.Landmark
}

// Estimator produces body landmarks from an encoded image. A nil Result with
// a nil error means the model found no pose in the frame, which is a normal
// outcome rather than an error.
type Estimator interface {
	Estimate(ctx context.Context, image []byte) (*Result, error)
}

// ErrTransient marks estimator failures the caller may retry (model warm-up,
// stream timestamp races, overload). All other estimator errors are fatal
// for the frame.
var ErrTransient = errors.New("transient estimator failure")

// IsTransient reports whether the error is a retryable estimator failure.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
