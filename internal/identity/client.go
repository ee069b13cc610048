// Package identity provides the client for the external identity
// provider. The provider owns sign-in and session management; this
// service only exchanges a session token for the user's stable id.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/talesai/narration-service/internal/core"
)

// Client verifies session tokens against the identity provider's
// verification endpoint. It implements the core.Identity interface.
type Client struct {
	httpClient *http.Client
	verifyURL  string
}

// New creates an identity client for the given verification endpoint.
func New(verifyURL string, timeout time.Duration) *Client {
	return &Client{
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID string `json:"userId"`
}

// UserID exchanges a session token for the signed-in user's stable id.
// The id is treated as an opaque string.
func (c *Client) UserID(ctx context.Context, token string) (string, error) {
	requestBody, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return "", fmt.Errorf("failed to marshal verify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.verifyURL,
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create verify request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: identity verify request failed: %w", core.ErrExternalService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read verify response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"%w: identity provider returned %s: %s",
			core.ErrExternalService, resp.Status, string(body),
		)
	}

	var parsed verifyResponse

	err = json.Unmarshal(body, &parsed)
	if err != nil {
		return "", fmt.Errorf("failed to parse verify response: %w", err)
	}

	if parsed.UserID == "" {
		return "", fmt.Errorf("%w: identity provider returned no user id", core.ErrExternalService)
	}

	return parsed.UserID, nil
}
