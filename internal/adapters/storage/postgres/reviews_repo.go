package postgres

import (
	"context"
	"database/sql"

	"pet-lostfound/internal/domain/reviews"
	"pet-lostfound/internal/domain/search"
)

type ReviewsRepo struct {
	db *sql.DB
}

func NewReviewsRepo(db *sql.DB) *ReviewsRepo {
	return &ReviewsRepo{db: db}
}

func (r *ReviewsRepo) Create(ctx context.Context, rev reviews.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO case_reviews (
			id, case_id, candidate_pet_id,
			decision, band, score,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		rev.ID,
		rev.CaseID,
		rev.CandidatePetID,
		string(rev.Decision),
		string(rev.Band),
		rev.Score,
		rev.CreatedAt,
	)
	return err
}

func (r *ReviewsRepo) ListByCase(ctx context.Context, caseID string, limit int) ([]reviews.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, case_id, candidate_pet_id, decision, band, score, created_at
		FROM case_reviews
		WHERE case_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, caseID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]reviews.Review, 0)
	for rows.Next() {
		var rev reviews.Review
		var decision, band string
		if err := rows.Scan(
			&rev.ID,
			&rev.CaseID,
			&rev.CandidatePetID,
			&decision,
			&band,
			&rev.Score,
			&rev.CreatedAt,
		); err != nil {
			return nil, err
		}

		rev.Decision = reviews.Decision(decision)
		rev.Band = search.Band(band)

		out = append(out, rev)
	}

	return out, rows.Err()
}

// DeleteByCase borra las reviews del caso. Normalmente lo resuelve la FK
// ON DELETE CASCADE; esto cubre borrados directos fuera de un erase.
func (r *ReviewsRepo) DeleteByCase(ctx context.Context, caseID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_reviews WHERE case_id = $1`, caseID)
	return err
}
