package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/DRIP-Screener-Backend/internal/model"
)

// FeaturedRepository provides read access to the featured_candidate table.
type FeaturedRepository struct {
	db *sql.DB
}

// NewFeaturedRepository creates a new FeaturedRepository with the provided database connection.
func NewFeaturedRepository(db *sql.DB) *FeaturedRepository {
	return &FeaturedRepository{db: db}
}

// GetCandidates retrieves the analyst write-ups eligible for rotation, in
// rotation order. Candidates whose instrument is inactive are skipped.
func (r *FeaturedRepository) GetCandidates(ctx context.Context) ([]model.FeaturedCandidate, error) {
	query := `
		SELECT f.id, i.symbol, f.analysis, f.recommendation, f.target_price, f.analyst_name
		FROM featured_candidate f
		INNER JOIN instrument i ON i.id = f.instrument_id
		WHERE i.status = ?
		ORDER BY f.position ASC, f.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, model.InstrumentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query featured_candidate table: %w", err)
	}
	defer rows.Close()

	candidates := []model.FeaturedCandidate{}
	for rows.Next() {
		var c model.FeaturedCandidate
		err := rows.Scan(
			&c.ID,
			&c.Symbol,
			&c.Analysis,
			&c.Recommendation,
			&c.TargetPrice,
			&c.AnalystName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan featured_candidate table results: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating featured_candidate table: %w", err)
	}

	return candidates, nil
}
