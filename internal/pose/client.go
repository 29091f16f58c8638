package pose

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/claude/kinetik/internal/analysis"
)

// Client talks to the pose-estimation model service over HTTP. A mutex
// serializes Estimate calls because the underlying model graph is stateful
// and not safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *slog.Logger

	mu sync.Mutex
}

// NewClient creates a client for the estimator service at baseURL.
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// estimateRequest is the wire request to the model service.
type estimateRequest struct {
	Image string `json:"image"` // base64-encoded frame
}

// estimateResponse is the wire response from the model service. Landmarks is
// null when no pose was detected.
type estimateResponse struct {
	Landmarks []analysis.Landmark `json:"landmarks"`
	Error     string              `json:"error,omitempty"`
}

// transientSignatures are model-internal failure messages known to clear on
// retry (mediapipe graph timestamp races during stream restarts).
var transientSignatures = []string{
	"packet timestamp mismatch",
	"calculatorgraph::run() failed",
	"model is loading",
}

// Estimate sends one frame to the model service and returns its landmarks.
// Returns (nil, nil) when the model found no pose.
func (c *Client) Estimate(ctx context.Context, image []byte) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	body, err := json.Marshal(estimateRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, fmt.Errorf("encoding estimate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/pose", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building estimate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Network-level failures are retryable from the caller's view.
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading estimate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyFailure(resp.StatusCode, respBody)
	}

	var er estimateResponse
	if err := json.Unmarshal(respBody, &er); err != nil {
		return nil, fmt.Errorf("decoding estimate response: %w", err)
	}
	if er.Error != "" {
		return nil, classifyFailure(resp.StatusCode, []byte(er.Error))
	}
	if len(er.Landmarks) == 0 {
		// No pose in frame: a normal outcome.
		return nil, nil
	}

	joints, err := frameFromLandmarks(er.Landmarks)
	if err != nil {
		return nil, fmt.Errorf("estimator returned malformed landmarks: %w", err)
	}
	return &Result{Joints: joints, Landmarks: er.Landmarks}, nil
}

// classifyFailure splits estimator failures into transient (retryable) and
// fatal, keeping the service's diagnostic text.
func classifyFailure(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if status == http.StatusServiceUnavailable || status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: estimator status %d: %s", ErrTransient, status, msg)
	}
	lower := strings.ToLower(msg)
	for _, sig := range transientSignatures {
		if strings.Contains(lower, sig) {
			return fmt.Errorf("%w: %s", ErrTransient, msg)
		}
	}
	return fmt.Errorf("estimator status %d: %s", status, msg)
}
