// Package publish posts summary threads to the social platform.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTwitterBaseURL = "https://api.twitter.com"

// Poster publishes a single post, optionally as a reply, and returns the
// platform identifier of the created post.
type Poster interface {
	Post(ctx context.Context, text, inReplyTo string) (string, error)
}

// TwitterClient posts tweets via the v2 API using bearer authentication.
type TwitterClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

var _ Poster = (*TwitterClient)(nil)

// NewTwitterClient creates a Twitter API client. An empty baseURL selects
// the public API endpoint.
func NewTwitterClient(bearerToken, baseURL string) *TwitterClient {
	if baseURL == "" {
		baseURL = defaultTwitterBaseURL
	}
	return &TwitterClient{
		baseURL:     baseURL,
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Post creates a tweet. A non-empty inReplyTo makes it a reply to that
// tweet, which is how reply chains are threaded.
func (c *TwitterClient) Post(ctx context.Context, text, inReplyTo string) (string, error) {
	payload := tweetRequest{Text: text}
	if inReplyTo != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tweet: %w", err)
	}

	url := c.baseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tweet request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("tweet request returned status %d: %s", resp.StatusCode, snippet)
	}

	var parsed tweetResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode tweet response: %w", err)
	}
	if parsed.Data.ID == "" {
		return "", fmt.Errorf("tweet response missing id")
	}
	return parsed.Data.ID, nil
}
