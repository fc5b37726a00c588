package encar

import (
	"context"
	"errors"
	"strings"
	"testing"

	"encar-backend/lib/telemetry"

	_ "embed"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/detail_40849700.html
var sampleDetailHtml string

func TestExtractPreloadedState(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	state, err := ExtractPreloadedState(context.Background(), sampleDetailHtml)
	require.NoError(t, err)

	cars, ok := state["cars"].(map[string]any)
	require.True(t, ok, "state must contain a cars object")
	base, ok := cars["base"].(map[string]any)
	require.True(t, ok, "cars must contain a base object")
	require.Contains(t, base, "advertisement")
}

func TestExtractMissingMarker(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	html := "<html><body><script>console.log('no state here');</script></body></html>"
	_, err := ExtractPreloadedState(context.Background(), html)
	require.EqualError(t, err, "Preloaded state marker not found.")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestExtractMalformedJson(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	html := "<script>__PRELOADED_STATE__ = {bad-json}</script>"
	_, err := ExtractPreloadedState(context.Background(), html)
	require.ErrorContains(t, err, "Failed to decode preloaded state")
}

func TestExtractNoObjectLiteral(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	html := "<script>__PRELOADED_STATE__ = null;</script>"
	_, err := ExtractPreloadedState(context.Background(), html)
	require.EqualError(t, err, "Preloaded state JSON payload not found.")
}

func TestExtractOversizedPayload(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	filler := strings.Repeat("a", maxStateBytes)
	html := `<script>window.__PRELOADED_STATE__ = {"cars":{"base":{"note":"` +
		filler + `"}}};</script>`
	_, err := ExtractPreloadedState(context.Background(), html)
	require.EqualError(t, err, "Preloaded state payload too large.")
}

// braces and semicolons inside string values must not end the scan
func TestExtractBracesInsideStrings(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	html := `<script>window.__PRELOADED_STATE__ = {"note":"a;b};c \"q\"","cars":{"base":{}}};console.log(1)</script>`
	state, err := ExtractPreloadedState(context.Background(), html)
	require.NoError(t, err)
	require.Equal(t, `a;b};c "q"`, state["note"])
}

// the first script carrying the marker may be a decoy that does not
// decode; later candidates must still be tried
func TestExtractSkipsUndecodableCandidates(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	html := `<html><body>
<script>console.log("__PRELOADED_STATE__ is set below")</script>
<script>window.__PRELOADED_STATE__ = {"cars":{"base":{}}};</script>
</body></html>`
	state, err := ExtractPreloadedState(context.Background(), html)
	require.NoError(t, err)
	require.Contains(t, state, "cars")
}
