package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"pet-lostfound/internal/domain/cases"
)

type CasesRepo struct {
	db *sql.DB
}

func NewCasesRepo(db *sql.DB) *CasesRepo {
	return &CasesRepo{db: db}
}

type consentJSON struct {
	ShareVectors bool `json:"shareVectors"`
	SharePhotos  bool `json:"sharePhotos"`
}

func (r *CasesRepo) Create(ctx context.Context, c cases.Case) error {
	consent, err := json.Marshal(consentJSON{
		ShareVectors: c.Consent.ShareVectors,
		SharePhotos:  c.Consent.SharePhotos,
	})
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cases (
			id, user_id,
			type, species, geohash6,
			consent_json, status,
			created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		c.ID,
		c.UserID,
		string(c.Type),
		c.Species,
		c.Geohash6,
		consent,
		string(c.Status),
		c.CreatedAt,
		toNullTime(c.ExpiresAt),
	)
	return err
}

func (r *CasesRepo) GetByID(ctx context.Context, id string) (cases.Case, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cases.Case{}, cases.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			type, species, geohash6,
			consent_json, status,
			created_at, expires_at
		FROM cases
		WHERE id = $1
	`, id)

	var c cases.Case
	var typ, status string
	var consent []byte
	var expires sql.NullTime
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&typ,
		&c.Species,
		&c.Geohash6,
		&consent,
		&status,
		&c.CreatedAt,
		&expires,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return cases.Case{}, cases.ErrNotFound
		}
		return cases.Case{}, err
	}

	c.Type = cases.CaseType(typ)
	c.Status = cases.Status(status)

	var cj consentJSON
	if err := json.Unmarshal(consent, &cj); err != nil {
		return cases.Case{}, err
	}
	c.Consent = cases.Consent{ShareVectors: cj.ShareVectors, SharePhotos: cj.SharePhotos}

	if expires.Valid {
		t := expires.Time
		c.ExpiresAt = &t
	}

	return c, nil
}

func (r *CasesRepo) AddPhoto(ctx context.Context, p cases.Photo) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO photos (
			id, case_id,
			url_encrypted, view, hash,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		p.ID,
		p.CaseID,
		p.URLEncrypted,
		p.View,
		p.Hash,
		p.CreatedAt,
	)
	return err
}

func (r *CasesRepo) ListPhotos(ctx context.Context, caseID string) ([]cases.Photo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, case_id, url_encrypted, view, hash, created_at
		FROM photos
		WHERE case_id = $1
		ORDER BY created_at ASC
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cases.Photo, 0)
	for rows.Next() {
		var p cases.Photo
		var urlEnc, view, hash sql.NullString
		if err := rows.Scan(&p.ID, &p.CaseID, &urlEnc, &view, &hash, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.URLEncrypted = urlEnc.String
		p.View = view.String
		p.Hash = hash.String
		out = append(out, p)
	}

	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Delete borra el caso; fotos y reviews caen por la FK ON DELETE CASCADE.
func (r *CasesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cases.ErrNotFound
	}
	return nil
}
