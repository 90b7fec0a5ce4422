package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"pet-lostfound/internal/domain/telemetry"
)

type TelemetryRepo struct {
	db *sql.DB
}

func NewTelemetryRepo(db *sql.DB) *TelemetryRepo {
	return &TelemetryRepo{db: db}
}

func (r *TelemetryRepo) Create(ctx context.Context, e telemetry.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, source, pet_id, type,
			ts, duration_s, conf,
			payload_json, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.Source,
		e.PetID,
		e.Type,
		e.TS,
		toNullFloat(e.DurationS),
		toNullFloat(e.Conf),
		payload,
		e.CreatedAt,
	)
	return err
}

func (r *TelemetryRepo) ListRecent(ctx context.Context, limit int) ([]telemetry.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, pet_id, type, ts, duration_s, conf, payload_json, created_at
		FROM events
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]telemetry.Event, 0)
	for rows.Next() {
		var e telemetry.Event
		var duration, conf sql.NullFloat64
		var payload []byte
		if err := rows.Scan(
			&e.ID,
			&e.Source,
			&e.PetID,
			&e.Type,
			&e.TS,
			&duration,
			&conf,
			&payload,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}

		if duration.Valid {
			v := duration.Float64
			e.DurationS = &v
		}
		if conf.Valid {
			v := conf.Float64
			e.Conf = &v
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &e.Payload); err != nil {
				return nil, err
			}
		}
		if e.Payload == nil {
			e.Payload = map[string]any{}
		}

		out = append(out, e)
	}

	return out, rows.Err()
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
