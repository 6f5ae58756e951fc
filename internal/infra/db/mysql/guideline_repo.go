package mysql

import (
	"context"
	"database/sql"

	domain "github.com/ethosnet/ethosnet/internal/domain/ethics"
)

type GuidelineRepository struct {
	db *sql.DB
}

func NewGuidelineRepository(db *sql.DB) *GuidelineRepository {
	return &GuidelineRepository{db: db}
}

// Save insert/update Guideline record
func (r *GuidelineRepository) Save(ctx context.Context, g *domain.Guideline) error {
	const q = `
INSERT INTO ethical_guidelines
(id, principle, description, examples, keywords, version, author_id, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 principle=VALUES(principle), description=VALUES(description),
 examples=VALUES(examples), keywords=VALUES(keywords),
 version=VALUES(version), updated_at=VALUES(updated_at);
`
	_, err := r.db.ExecContext(ctx, q,
		g.ID, stringOrDash(string(g.Principle)), g.Description,
		marshalList(g.Examples), marshalList(g.Keywords),
		g.Version, stringOrDash(g.AuthorID), g.CreatedAt, g.UpdatedAt,
	)
	return err
}

// Get by ID
func (r *GuidelineRepository) Get(ctx context.Context, id string) (*domain.Guideline, error) {
	const q = `
SELECT id, principle, description, examples, keywords, version, author_id, created_at, updated_at
FROM ethical_guidelines
WHERE id=? LIMIT 1;
`
	return scanGuideline(r.db.QueryRowContext(ctx, q, id))
}

// List all guidelines ordered by principle
func (r *GuidelineRepository) List(ctx context.Context) ([]*domain.Guideline, error) {
	const q = `
SELECT id, principle, description, examples, keywords, version, author_id, created_at, updated_at
FROM ethical_guidelines
ORDER BY principle, created_at;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Guideline
	for rows.Next() {
		g, err := scanGuideline(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGuideline(row rowScanner) (*domain.Guideline, error) {
	var g domain.Guideline
	var examples, keywords string
	if err := row.Scan(
		&g.ID, &g.Principle, &g.Description, &examples, &keywords,
		&g.Version, &g.AuthorID, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	g.Examples = unmarshalList(examples)
	g.Keywords = unmarshalList(keywords)
	return &g, nil
}
