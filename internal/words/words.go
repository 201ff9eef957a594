// internal/words/words.go
//
// Word sources for new games.
//
// Two implementations of Source:
//   - Remote: GETs a JSON array of strings from a random-word HTTP API and
//     returns its first element. Bounded by a client timeout; no retries.
//   - List (list.go): picks from a word list loaded from a file or the
//     embedded default. Only used when configured explicitly.
//
// Any failure to produce a word is reported as ErrUnavailable.

package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the public random-word API used when none is configured.
const DefaultURL = "https://random-word-api.herokuapp.com/word"

// DefaultTimeout bounds one call to the remote word API.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of the word API response is read.
const maxBody = 64 << 10

// ErrUnavailable means no word could be obtained from the source.
var ErrUnavailable = errors.New("word source unavailable")

// Source supplies one word per new game.
type Source interface {
	RandomWord(ctx context.Context) (string, error)
}

// Remote fetches words from an HTTP word API.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote returns a Remote for url. Empty url and non-positive timeout
// fall back to DefaultURL and DefaultTimeout.
func NewRemote(url string, timeout time.Duration) *Remote {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Remote{url: url, client: &http.Client{Timeout: timeout}}
}

// RandomWord returns the first word of the API's response.
func (r *Remote) RandomWord(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var list []string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&list); err != nil {
		return "", fmt.Errorf("%w: decode: %w", ErrUnavailable, err)
	}
	if len(list) == 0 || strings.TrimSpace(list[0]) == "" {
		return "", fmt.Errorf("%w: empty response", ErrUnavailable)
	}
	if !hasLetter(list[0]) {
		return "", fmt.Errorf("%w: no letters in %q", ErrUnavailable, list[0])
	}
	return list[0], nil
}
