package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vexstorm/database/repository"
	"vexstorm/models"

	"github.com/jackc/pgx/v5/pgconn"
)

// registrationColumns maps logical predicate fields to columns.
var registrationColumns = map[string]string{
	repository.FieldLeaderEmail:   "leader_email_key",
	repository.FieldTeamName:      "team_key",
	repository.FieldTransactionID: "transaction_id",
	repository.FieldDeviceID:      "device_id",
}

// RegistrationStore implements the registration repository on Postgres.
type RegistrationStore struct {
	db *DB
}

func NewRegistrationStore(db *DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Insert(ctx context.Context, rec *models.RegistrationRecord) error {
	leader, err := json.Marshal(rec.Leader)
	if err != nil {
		return fmt.Errorf("encode leader: %w", err)
	}
	members := rec.Members
	if members == nil {
		members = []models.Participant{}
	}
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode members: %w", err)
	}

	_, err = s.db.Pool.Exec(ctx, `
        INSERT INTO registrations (
            registration_id, entry_type, team_name, team_key, track, team_size, leader, members,
            leader_email_key, project_pitch, motivation, drive_link, transaction_id,
            payment_method, payment_mode, amount, device_id, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
    `,
		rec.RegistrationID, rec.Type, rec.TeamName, nullable(rec.TeamKey), rec.Track, rec.TeamSize, leader, membersJSON,
		rec.LeaderEmailKey, rec.ProjectPitch, rec.Motivation, rec.DriveLink, rec.TransactionID,
		rec.PaymentMethod, rec.PaymentMode, rec.Amount, nullable(rec.DeviceID), rec.Status, rec.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert registration %s: %w", rec.RegistrationID, err)
	}
	return nil
}

func (s *RegistrationStore) FindDuplicates(ctx context.Context, preds repository.Predicates) ([]models.RegistrationRecord, error) {
	where, args := whereAny(preds, registrationColumns)
	if where == "" {
		return nil, nil
	}

	rows, err := s.db.Pool.Query(ctx, `
        SELECT registration_id, team_name, COALESCE(team_key, ''), leader_email_key,
               transaction_id, COALESCE(device_id, '')
        FROM registrations
        WHERE `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	var out []models.RegistrationRecord
	for rows.Next() {
		var rec models.RegistrationRecord
		if err := rows.Scan(&rec.RegistrationID, &rec.TeamName, &rec.TeamKey, &rec.LeaderEmailKey,
			&rec.TransactionID, &rec.DeviceID); err != nil {
			return nil, fmt.Errorf("scan duplicate: %w", err)
		}
		rec.Leader.Email = rec.LeaderEmailKey
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *RegistrationStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE leader_email_key = $1)`,
		repository.NormalizeKey(email),
	).Scan(&exists)
	return exists, err
}

// whereAny renders active predicates as "col = $1 OR col = $2".
func whereAny(preds repository.Predicates, columns map[string]string) (string, []any) {
	var clauses []string
	var args []any
	for _, p := range preds.Active() {
		col, ok := columns[p.Field]
		if !ok {
			continue
		}
		args = append(args, p.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return strings.Join(clauses, " OR "), args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
