package vehiclestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"encar-backend/lib/scrapers/encar"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Store is a write-only sink for normalized vehicle records. The
// scraping pipeline never reads it back.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func (s Store) Push(ctx context.Context, fetchedAt time.Time, record encar.Vehicle) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO vehicles (id, fetched_at, record) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET fetched_at = excluded.fetched_at, record = excluded.record`,
		record.Id,
		fetchedAt.Unix(),
		string(payload),
	)
	return err
}

type StoredVehicle struct {
	Id        string
	FetchedAt time.Time
	Record    encar.Vehicle
}

func (s Store) List(ctx context.Context) ([]StoredVehicle, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, fetched_at, record FROM vehicles ORDER BY fetched_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredVehicle
	for rows.Next() {
		var id string
		var fetchedAt int64
		var payload string
		err = rows.Scan(&id, &fetchedAt, &payload)
		if err != nil {
			return nil, err
		}

		var record encar.Vehicle
		err = json.Unmarshal([]byte(payload), &record)
		if err != nil {
			slog.WarnContext(ctx, "failed to unmarshal stored vehicle record", "id", id, "err", err)
			continue
		}

		out = append(out, StoredVehicle{
			Id:        id,
			FetchedAt: time.Unix(fetchedAt, 0),
			Record:    record,
		})
	}
	return out, rows.Err()
}
