package encar

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"encar-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestParseVehicleFromFixture(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	res, err := ParseVehicle(context.Background(), StaticSource{Html: sampleDetailHtml}, "40849700")
	require.NoError(t, err)

	data := res.Data
	require.Equal(t, "40849700", data.Id)
	require.True(t, strings.HasSuffix(data.Url, "/40849700"))
	require.Equal(t, data.Url, data.CardUrl)

	require.NotNil(t, data.Price)
	require.GreaterOrEqual(t, *data.Price, int64(0))
	require.NotNil(t, data.Year)
	require.GreaterOrEqual(t, *data.Year, 1000)
	require.LessOrEqual(t, *data.Year, 9999)

	require.NotNil(t, data.Timestamps)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, data.Timestamps.RegisteredAt)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, data.Timestamps.FirstAdvertisedAt)
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, data.Timestamps.ModifiedAt)
}

func TestParseVehicleFromFile(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	path := filepath.Join(t.TempDir(), "detail.html")
	err := os.WriteFile(path, []byte(sampleDetailHtml), 0600)
	require.NoError(t, err)

	res, err := ParseVehicle(context.Background(), FileSource{Path: path}, "40849700")
	require.NoError(t, err)
	require.Equal(t, "40849700", res.Data.Id)
}

type mapSource map[string]string

func (s mapSource) FetchDetail(ctx context.Context, vehicleId string) (string, error) {
	html, ok := s[vehicleId]
	if !ok {
		return "", &FetchError{VehicleId: vehicleId, StatusCode: 404}
	}
	return html, nil
}

func TestParseVehiclesKeepsOrderAndIsolatesFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	src := mapSource{
		"111": sampleDetailHtml,
		"333": sampleDetailHtml,
	}
	items := ParseVehicles(context.Background(), src, []string{"111", "222", "333"})
	require.Len(t, items, 3)

	require.Equal(t, "111", items[0].VehicleId)
	require.NoError(t, items[0].Err)

	require.Equal(t, "222", items[1].VehicleId)
	var ferr *FetchError
	require.True(t, errors.As(items[1].Err, &ferr))
	require.Equal(t, 404, ferr.StatusCode)

	require.Equal(t, "333", items[2].VehicleId)
	require.NoError(t, items[2].Err)
}

// one requested id yields a single {"data":{...}} object, two or more
// yield an array in input order
func TestBatchOutputShape(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	src := mapSource{
		"111": sampleDetailHtml,
		"333": sampleDetailHtml,
	}

	single := ParseVehicles(context.Background(), src, []string{"111"})
	encoded, err := json.Marshal(BatchOutput(single))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(encoded), `{"data":`))

	batch := ParseVehicles(context.Background(), src, []string{"333", "111"})
	encoded, err = json.Marshal(BatchOutput(batch))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(encoded), `[`))

	var decoded []Result
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 2)

	// a single requested id that fails still renders as an array
	failing := ParseVehicles(context.Background(), src, []string{"222"})
	encoded, err = json.Marshal(BatchOutput(failing))
	require.NoError(t, err)
	require.Equal(t, "[]", string(encoded))
}

func testClient(t *testing.T, baseUrl string) *Client {
	t.Helper()
	return NewClient(ClientOptions{
		BaseUrl: baseUrl,
		Timeout: time.Second * 5,
	})
}

func TestFetchDetailRetriesTransientFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sampleDetailHtml))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	html, err := client.FetchDetail(context.Background(), "40849700")
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
	require.Contains(t, html, StateMarker)
}

func TestFetchDetailExhaustsRetries(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.FetchDetail(context.Background(), "40849700")

	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, http.StatusServiceUnavailable, ferr.StatusCode)
	require.Equal(t, "40849700", ferr.VehicleId)
	require.Equal(t, 3, attempts)
}

// a plain 4xx is not transient, it must fail on the first attempt
func TestFetchDetailDoesNotRetryClientErrors(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	_, err := client.FetchDetail(context.Background(), "40849700")

	var ferr *FetchError
	require.True(t, errors.As(err, &ferr))
	require.Equal(t, http.StatusNotFound, ferr.StatusCode)
	require.Equal(t, 1, attempts)
}

func TestFetchErrorIsNotParseError(t *testing.T) {
	cleanup := telemetry.SetupForTesting("test:scrapers/encar")
	defer cleanup()

	_, err := ParseVehicle(
		context.Background(),
		StaticSource{Html: "<html><body>blocked</body></html>"},
		"40849700",
	)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	var ferr *FetchError
	require.False(t, errors.As(err, &ferr))
}
