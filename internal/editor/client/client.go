package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Plans Client
// ============================================================

// SaveRequest is the payload submitted to the plans service: the
// fully regenerated document plus the structured per-kind arrays.
type SaveRequest struct {
	Document string        `json:"document"`
	Elements plan.Elements `json:"elements"`
}

type SaveResult struct {
	Preview string    `json:"preview"`
	SavedAt time.Time `json:"saved_at"`
}

// Client talks to the plans service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchPlan downloads the plan document for a project.
func (c *Client) FetchPlan(ctx context.Context, projectID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/projects/%s/plan", c.baseURL, projectID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remoteError(resp)
	}
	return io.ReadAll(resp.Body)
}

// FetchElements downloads previously persisted elements, used to
// pre-populate the per-kind collections on load.
func (c *Client) FetchElements(ctx context.Context, projectID string) (plan.Elements, error) {
	var els plan.Elements

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/projects/%s/elements", c.baseURL, projectID), nil)
	if err != nil {
		return els, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return els, fmt.Errorf("fetch elements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return els, nil // nothing persisted yet
	}
	if resp.StatusCode != http.StatusOK {
		return els, remoteError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&els); err != nil {
		return plan.Elements{}, fmt.Errorf("decode elements: %w", err)
	}
	return els, nil
}

// SavePlan submits a save request. A non-success response surfaces
// the service's error detail verbatim.
func (c *Client) SavePlan(ctx context.Context, projectID string, payload SaveRequest) (*SaveResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode save request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/projects/%s/plan", c.baseURL, projectID), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, remoteError(resp)
	}

	var result SaveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode save response: %w", err)
	}
	return &result, nil
}

// remoteError extracts the {"error": ...} detail the services return.
func remoteError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
