// internal/github/gateway.go
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Gateway persists the bot document as a single file in a GitHub repository
// through the contents API. It treats the document as opaque bytes; the
// commit sha returned on reads doubles as the version token required for
// updates.
type Gateway struct {
	token   string
	owner   string
	repo    string
	path    string
	branch  string
	baseURL string
	read    *http.Client
	write   *http.Client
}

func NewGateway(token, owner, repo, path, branch string) *Gateway {
	return &Gateway{
		token:   token,
		owner:   owner,
		repo:    repo,
		path:    path,
		branch:  branch,
		baseURL: "https://api.github.com",
		read:    &http.Client{Timeout: 15 * time.Second},
		write:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *Gateway) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.baseURL, g.owner, g.repo, g.path)
}

func (g *Gateway) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

type contentsResponse struct {
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

type putPayload struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// Load fetches and decodes the remote document. A missing file is not an
// error: it returns (nil, nil) and the caller keeps its local defaults.
func (g *Gateway) Load(ctx context.Context) ([]byte, error) {
	body, _, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (g *Gateway) fetch(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL()+"?ref="+g.branch, nil)
	if err != nil {
		return nil, "", err
	}
	g.setHeaders(req)

	resp, err := g.read.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", g.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: unexpected status %d", g.path, resp.StatusCode)
	}

	var contents contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&contents); err != nil {
		return nil, "", fmt.Errorf("decode contents response: %w", err)
	}
	if contents.Content == "" {
		return nil, contents.SHA, nil
	}
	// The API wraps base64 content across lines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(contents.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode file content: %w", err)
	}
	return raw, contents.SHA, nil
}

// Save uploads the full document, creating or updating the remote file. The
// current sha is fetched first so the update is not rejected as a conflicting
// write; when the file does not exist yet the write goes out without one.
// There are no retries.
func (g *Gateway) Save(ctx context.Context, doc []byte, message string) error {
	_, sha, err := g.fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch current sha: %w", err)
	}

	payload := putPayload{
		Message: fmt.Sprintf("%s @ %s", message, time.Now().UTC().Format(time.RFC3339)),
		Content: base64.StdEncoding.EncodeToString(doc),
		Branch:  g.branch,
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.write.Do(req)
	if err != nil {
		return fmt.Errorf("save %s: %w", g.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 400))
		return fmt.Errorf("save %s: status %d: %s", g.path, resp.StatusCode, detail)
	}
	return nil
}
