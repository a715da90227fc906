package agency

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coraldb/maintd/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Client talks JSON over HTTP to the coordination store. Reads return
// point-in-time snapshots; writes are fire-and-forget from the agent's
// perspective because a failed write is simply retried by the next pass.
type Client struct {
	endpoints []string
	http      *http.Client
}

// NewClient creates a client for the given coordination-store endpoints.
// Requests are tried against each endpoint in order until one succeeds.
func NewClient(endpoints []string) *Client {
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: defaultTimeout},
	}
}

// Plan fetches the current desired-state snapshot.
func (c *Client) Plan(ctx context.Context) (*types.Plan, error) {
	var plan types.Plan
	if err := c.get(ctx, "/_api/agency/plan", &plan); err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return &plan, nil
}

// Current fetches the current reported-state snapshot.
func (c *Client) Current(ctx context.Context) (*types.Current, error) {
	var current types.Current
	if err := c.get(ctx, "/_api/agency/current", &current); err != nil {
		return nil, fmt.Errorf("failed to read current: %w", err)
	}
	return &current, nil
}

// Write applies a batch of state-report operations.
func (c *Client) Write(ctx context.Context, ops types.ReportOps) error {
	if len(ops) == 0 {
		return nil
	}
	if err := c.post(ctx, "/_api/agency/write", ops); err != nil {
		return fmt.Errorf("failed to write report ops: %w", err)
	}
	return nil
}

// Transact applies compare-and-set transaction pairs. A precondition miss is
// not an error here: it means another pass already did the bookkeeping.
func (c *Client) Transact(ctx context.Context, txns []types.Transaction) error {
	if len(txns) == 0 {
		return nil
	}
	if err := c.post(ctx, "/_api/agency/transact", txns); err != nil {
		return fmt.Errorf("failed to apply transactions: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, data, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if len(c.endpoints) == 0 {
		return errors.New("no agency endpoints configured")
	}

	var lastErr error
	for _, endpoint := range c.endpoints {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint+path, reader)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		err = decodeResponse(resp, out)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("agency returned %s: %s", resp.Status, data)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
