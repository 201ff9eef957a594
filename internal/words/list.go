// internal/words/list.go
//
// Word list source.
//
// Loading behavior (LoadList):
//   1. If path is set, read one word per line from that file.
//   2. Otherwise use the embedded default_words.txt.
//
// Lines are trimmed; blank lines and lines starting with "#" are skipped.
// Words keep their case. A line must contain at least one letter.

package words

import (
	"bufio"
	"context"
	"crypto/rand"
	_ "embed"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"unicode"
)

//go:embed default_words.txt
var embeddedWords string

// List picks words uniformly at random from a fixed list.
type List struct {
	words []string
}

// NewList builds a List from words, dropping entries without letters.
func NewList(words []string) (*List, error) {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); hasLetter(w) {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("words: list is empty")
	}
	return &List{words: out}, nil
}

// LoadList reads the list at path, or the embedded default when path is empty.
func LoadList(path string) (*List, error) {
	if path == "" {
		ws, err := readWords(strings.NewReader(embeddedWords))
		if err != nil {
			return nil, err
		}
		return NewList(ws)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ws, err := readWords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewList(ws)
}

// RandomWord returns a cryptographically random entry.
func (l *List) RandomWord(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.words))))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return l.words[n.Int64()], nil
}

// Len reports how many words the list holds.
func (l *List) Len() int { return len(l.words) }

func readWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
