// client_api.go - Nicht-streamende API-Methoden des Clients
// Enthaelt: Version, Status, Reset, History
package api

import (
	"context"
	"net/http"
	"net/url"
)

// Version returns the plauderkasten server version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var version struct {
		Version string `json:"version"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}

// Status reports the model dimensions and the cache fill level of every
// active session.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Reset clears the cache of a single session, or of all sessions when
// req.Session is empty.
func (c *Client) Reset(ctx context.Context, req *ResetRequest) error {
	return c.do(ctx, http.MethodPost, "/api/reset", req, nil)
}

// History returns the persisted chat transcript of a session.
func (c *Client) History(ctx context.Context, session string) (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/history?session="+url.QueryEscape(session), nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}
