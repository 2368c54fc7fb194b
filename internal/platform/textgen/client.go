// Package textgen calls an external generative-text API to produce demo post
// bodies. The service is treated as an opaque text producer: on any failure
// (missing credential, network error, malformed response) the static fallback
// list is returned instead.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"postboost-backend/internal/common/logger"
)

const demoPrompt = `Generate short social media posts about crypto, tech and internet culture. ` +
	`Reply with only a JSON array of strings, each under 200 characters, no markdown.`

// FallbackPosts is used whenever the external service cannot be reached or
// returns something unusable.
var FallbackPosts = []string{
	"Just moved my savings to USDT. Sleeping better already.",
	"Hot take: the best social network is the one that pays you back.",
	"gm to everyone except gas fees",
	"Sponsored my first post today. 10k views for a dollar, wild times.",
	"If your wallet has more apps than your phone, we can be friends.",
	"Day 30 of posting daily. The algorithm finally noticed me.",
	"Reminder: not your keys, not your coins.",
	"The metaverse is just group chat with extra steps.",
}

// Client talks to a Gemini-compatible generateContent endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// New creates a text-generation client. An empty apiKey disables the remote
// call entirely.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// WithHTTPClient overrides the HTTP client; used by tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// GeneratePosts returns up to n short post bodies. It never fails: any error
// along the way degrades to the fallback list.
func (c *Client) GeneratePosts(ctx context.Context, n int) []string {
	if n <= 0 {
		n = len(FallbackPosts)
	}

	posts, err := c.fetch(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Text generation failed, using fallback posts")
		posts = FallbackPosts
	}

	if len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	if c.apiKey == "" {
		return nil, errMissingKey
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": demoPrompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errHTTPStatus(resp.StatusCode)
	}

	text := gjson.GetBytes(raw, "candidates.0.content.parts.0.text").String()
	if text == "" {
		return nil, errEmptyResponse
	}

	return parsePostList(text)
}

// parsePostList extracts a JSON array of strings from the model output,
// tolerating markdown code fences around it.
func parsePostList(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	parsed := gjson.Parse(text)
	if !parsed.IsArray() {
		return nil, errEmptyResponse
	}

	var posts []string
	for _, item := range parsed.Array() {
		if s := strings.TrimSpace(item.String()); s != "" {
			posts = append(posts, s)
		}
	}
	if len(posts) == 0 {
		return nil, errEmptyResponse
	}
	return posts, nil
}
