package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/dataset-summarizer-api/internal/utils"
)

const DefaultGitHubURL = "https://api.github.com"

type User struct {
	Login string `json:"login"`
	Name  string `json:"name,omitempty"`
}

type GitHubClient struct {
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

func NewGitHubClient(baseURL string, timeout time.Duration, logger *utils.Logger) *GitHubClient {
	if baseURL == "" {
		baseURL = DefaultGitHubURL
	}
	return &GitHubClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Resolve returns the GitHub user that owns token. A response other than
// 200 yields a nil user and a nil error.
func (c *GitHubClient) Resolve(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("GitHub token rejected", "status", resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	return &user, nil
}
