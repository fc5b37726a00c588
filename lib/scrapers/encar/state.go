package encar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"encar-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// StateMarker prefixes the JSON state object embedded in the detail
// page markup.
const StateMarker = "__PRELOADED_STATE__"

// guard against unexpected script bloat
const maxStateBytes = 5_000_000

// ParseError reports that the page structure no longer matches what
// this scraper expects: a missing state marker, an undecodable state
// payload, or a schema violation. Path carries the first offending
// field path when one is known.
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return e.Message
}

// State is the decoded preloaded state object, untrusted until it
// passes ValidateState.
type State map[string]any

// ExtractPreloadedState locates the state marker inside the page's
// <script> bodies and decodes the JSON object literal assigned to it.
func ExtractPreloadedState(ctx context.Context, html string) (State, error) {
	_, span := tracer.Start(ctx, "ExtractPreloadedState")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, &ParseError{Message: fmt.Sprintf("Failed to parse document: %s", err)}
	}

	var candidates []string
	for _, body := range htmlutil.ScriptBodies(doc) {
		if strings.Contains(body, StateMarker) {
			candidates = append(candidates, body)
		}
	}
	if len(candidates) == 0 {
		perr := &ParseError{Message: "Preloaded state marker not found."}
		span.SetStatus(codes.Error, perr.Message)
		return nil, perr
	}

	// use the first candidate that decodes, fail only after trying all
	var lastErr error
	for _, script := range candidates {
		state, err := decodeStateScript(script)
		if err == nil {
			return state, nil
		}
		lastErr = err
	}
	span.RecordError(lastErr)
	span.SetStatus(codes.Error, "failed to decode preloaded state")
	return nil, lastErr
}

func decodeStateScript(script string) (State, error) {
	_, tail, _ := strings.Cut(script, StateMarker)
	_, afterEquals, _ := strings.Cut(tail, "=")

	start := strings.IndexByte(afterEquals, '{')
	if start == -1 {
		return nil, &ParseError{Message: "Preloaded state JSON payload not found."}
	}

	blob, err := isolateObjectLiteral(afterEquals[start:])
	if err != nil {
		return nil, err
	}
	if len(blob) > maxStateBytes {
		return nil, &ParseError{Message: "Preloaded state payload too large."}
	}

	var state State
	err = json.Unmarshal([]byte(blob), &state)
	if err != nil {
		return nil, &ParseError{Message: fmt.Sprintf("Failed to decode preloaded state: %s", err)}
	}
	return state, nil
}

// isolateObjectLiteral returns the balanced {...} prefix of s,
// tracking string literals and escape sequences so braces and
// semicolons inside string values do not end the scan early.
func isolateObjectLiteral(s string) (string, error) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], nil
			}
		}
	}
	return "", &ParseError{Message: "Failed to decode preloaded state: unterminated object literal."}
}
