// Package fetch is the HTTP boundary to the draft API and the public
// results API. All failure modes (network error, non-2xx, malformed JSON)
// surface as absence of data, never as errors — callers decide whether a
// missing payload is skippable or fatal.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type Client struct {
	HTTP          *http.Client
	DraftBaseURL  string
	PublicBaseURL string
	UserAgent     string
	Sleep         time.Duration

	log zerolog.Logger
}

func NewClient(draftBase, publicBase string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: timeout},
		DraftBaseURL:  draftBase,
		PublicBaseURL: publicBase,
		UserAgent:     "fpl-draft-pipeline/1.0",
		Sleep:         250 * time.Millisecond,
		log:           log,
	}
}

// GetJSON performs a GET against url and decodes the body into out.
// Returns false on any failure; the failure is logged at warn level and
// out is left untouched on decode errors only partially.
func (c *Client) GetJSON(ctx context.Context, url string, out any) bool {
	if c.Sleep > 0 {
		time.Sleep(c.Sleep)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("build request failed")
		return false
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("request failed")
		return false
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("non-2xx response")
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn().Err(err).Str("url", url).Msg("malformed JSON body")
		return false
	}
	return true
}
