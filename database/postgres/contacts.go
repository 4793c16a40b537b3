package postgres

import (
	"context"
	"fmt"
	"time"

	"vexstorm/models"
)

// ContactStore implements the contact repository on Postgres.
type ContactStore struct {
	db *DB
}

func NewContactStore(db *DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) Insert(ctx context.Context, inq *models.ContactInquiry) error {
	_, err := s.db.Pool.Exec(ctx, `
        INSERT INTO contact_inquiries (
            id, name, email, phone, company, location, project_stage, budget,
            ai_usage, employees, experience, message, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
    `,
		inq.ID, inq.Name, inq.Email, inq.Phone, inq.Company, inq.Location, inq.ProjectStage, inq.Budget,
		inq.AIUsage, inq.Employees, inq.Experience, inq.Message, inq.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact inquiry: %w", err)
	}
	return nil
}

func (s *ContactStore) ListSince(ctx context.Context, since time.Time) ([]models.ContactInquiry, error) {
	rows, err := s.db.Pool.Query(ctx, `
        SELECT id, name, email, phone, company, location, project_stage, budget,
               ai_usage, employees, experience, message, created_at
        FROM contact_inquiries
        WHERE created_at >= $1
        ORDER BY created_at ASC
    `, since)
	if err != nil {
		return nil, fmt.Errorf("list contact inquiries: %w", err)
	}
	defer rows.Close()

	var out []models.ContactInquiry
	for rows.Next() {
		var inq models.ContactInquiry
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Company, &inq.Location,
			&inq.ProjectStage, &inq.Budget, &inq.AIUsage, &inq.Employees, &inq.Experience,
			&inq.Message, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact inquiry: %w", err)
		}
		out = append(out, inq)
	}
	return out, rows.Err()
}
