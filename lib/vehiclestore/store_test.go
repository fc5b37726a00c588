package vehiclestore

import (
	"context"
	"testing"
	"time"

	"encar-backend/lib/scrapers/encar"
	"encar-backend/lib/sqliteutil"
	"encar-backend/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func setup(t *testing.T) Store {
	cleanup := telemetry.SetupForTesting("test:vehiclestore")
	t.Cleanup(cleanup)

	db, err := sqliteutil.OpenDB(Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func sampleRecord() encar.Vehicle {
	return encar.Vehicle{
		Id:      "40849700",
		Make:    "Hyundai",
		Model:   "Grandeur",
		Year:    intp(2019),
		Price:   int64p(10_500_000),
		Mileage: intp(51234),
		Fuel:    "Gasoline",
		Url:     encar.DetailURL("40849700"),
		CardUrl: encar.DetailURL("40849700"),
		Specifications: &encar.Specifications{
			Engine:       "2.4L",
			Transmission: "Automatic",
		},
	}
}

func TestPushAndList(t *testing.T) {
	store := setup(t)
	ctx := context.Background()

	record := sampleRecord()
	fetchedAt := time.Unix(1_700_000_000, 0)
	err := store.Push(ctx, fetchedAt, record)
	require.NoError(t, err)

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "40849700", rows[0].Id)
	require.Equal(t, fetchedAt.Unix(), rows[0].FetchedAt.Unix())
	require.Empty(t, cmp.Diff(record, rows[0].Record))
}

// pushing the same id twice keeps the newest record
func TestPushUpserts(t *testing.T) {
	store := setup(t)
	ctx := context.Background()

	record := sampleRecord()
	err := store.Push(ctx, time.Unix(1_700_000_000, 0), record)
	require.NoError(t, err)

	record.Price = int64p(9_900_000)
	err = store.Push(ctx, time.Unix(1_700_000_500, 0), record)
	require.NoError(t, err)

	rows, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(9_900_000), *rows[0].Record.Price)
	require.Equal(t, int64(1_700_000_500), rows[0].FetchedAt.Unix())
}
