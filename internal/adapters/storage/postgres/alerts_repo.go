package postgres

import (
	"context"
	"database/sql"

	"pet-lostfound/internal/domain/alerts"
)

type AlertsRepo struct {
	db *sql.DB
}

func NewAlertsRepo(db *sql.DB) *AlertsRepo {
	return &AlertsRepo{db: db}
}

func (r *AlertsRepo) Create(ctx context.Context, a alerts.Alert) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO alerts (
			id, pet_id, room_id,
			kind, severity, state,
			evidence_url, ts, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		a.ID,
		a.PetID,
		toNullString(a.RoomID),
		a.Kind,
		string(a.Severity),
		string(a.State),
		toNullString(a.EvidenceURL),
		a.TS,
		a.CreatedAt,
	)
	return err
}

func (r *AlertsRepo) ListRecent(ctx context.Context, limit int) ([]alerts.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pet_id, room_id, kind, severity, state, evidence_url, ts, created_at
		FROM alerts
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]alerts.Alert, 0)
	for rows.Next() {
		var a alerts.Alert
		var roomID, evidenceURL sql.NullString
		var severity, state string
		if err := rows.Scan(
			&a.ID,
			&a.PetID,
			&roomID,
			&a.Kind,
			&severity,
			&state,
			&evidenceURL,
			&a.TS,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}

		a.RoomID = roomID.String
		a.EvidenceURL = evidenceURL.String
		a.Severity = alerts.Severity(severity)
		a.State = alerts.State(state)

		out = append(out, a)
	}

	return out, rows.Err()
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
