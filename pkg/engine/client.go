package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coraldb/maintd/pkg/types"
)

const defaultTimeout = 10 * time.Second

// Client reads this node's actual state from the local storage engine's
// admin API and forwards action descriptions to its executor. It implements
// maintenance.StorageEngine.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the storage engine listening at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Snapshot returns the full local state tree.
func (c *Client) Snapshot(ctx context.Context) (types.Local, error) {
	var local types.Local
	if err := c.get(ctx, "/_admin/state", &local); err != nil {
		return nil, fmt.Errorf("failed to snapshot local state: %w", err)
	}
	return local, nil
}

// Database returns the info document of a local database.
func (c *Client) Database(name string) (types.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var info types.Document
	if err := c.get(ctx, "/_admin/database/"+url.PathEscape(name), &info); err != nil {
		return nil, fmt.Errorf("failed to look up database %s: %w", name, err)
	}
	return info, nil
}

// Followers returns the server ids currently replicating the shard from
// this node, in ranking order.
func (c *Client) Followers(database, shard string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	path := "/_admin/followers?database=" + url.QueryEscape(database) + "&shard=" + url.QueryEscape(shard)
	var followers []string
	if err := c.get(ctx, path, &followers); err != nil {
		return nil, fmt.Errorf("failed to enumerate followers of %s/%s: %w", database, shard, err)
	}
	return followers, nil
}

// Execute hands one action description to the engine's action executor. The
// executor runs actions asynchronously; an accepted action is not a finished
// action.
func (c *Client) Execute(ctx context.Context, action types.Action) error {
	data, err := json.Marshal(action)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/_admin/actions", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit action %s: %w", action.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("engine rejected action %s: %s: %s", action.Name, resp.Status, body)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("engine returned %s: %s", resp.Status, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
