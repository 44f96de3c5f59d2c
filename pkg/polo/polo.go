// Package polo reads Ham2K Portable Logger (PoLo) callsign notes files.
// A notes file has one callsign per line, optionally followed by free-form
// notes, with #- and //-style comment lines.
package polo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Parse extracts callsigns from PoLo callsign notes content. The first word
// of each line is the callsign; blank lines and comment lines (# or //) are
// skipped.
func Parse(content string) []string {
	var callsigns []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		fields := strings.Fields(trimmed)
		callsigns = append(callsigns, fields[0])
	}

	return callsigns
}

// Fetcher downloads and parses PoLo notes files over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a [Fetcher].
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the notes file at url and returns its callsigns.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch notes: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body.

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch notes from %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read notes: %w", err)
	}

	return Parse(string(body)), nil
}

// Format controls how a callsign list is joined into one trigger condition.
type Format int

const (
	// FormatDefault joins with ", ".
	FormatDefault Format = iota
	// FormatCompact joins with ",".
	FormatCompact
	// FormatOnePerLine joins with newlines.
	FormatOnePerLine
)

// FormatFromFlags resolves the format from command-line flags; compact wins
// when both are set.
func FormatFromFlags(compact, onePerLine bool) Format {
	switch {
	case compact:
		return FormatCompact
	case onePerLine:
		return FormatOnePerLine
	default:
		return FormatDefault
	}
}

// Join combines callsigns into a single condition value.
func (f Format) Join(callsigns []string) string {
	return strings.Join(callsigns, f.separator())
}

func (f Format) separator() string {
	switch f {
	case FormatCompact:
		return ","
	case FormatOnePerLine:
		return "\n"
	default:
		return ", "
	}
}
