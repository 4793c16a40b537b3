package registrationRepo

import (
	"context"

	"vexstorm/database/repository"
	"vexstorm/models"
)

// RegistrationRepository defines persistence for registration records.
type RegistrationRepository interface {
	// Insert stores a new record. Uniqueness violations return repository.ErrDuplicate.
	Insert(ctx context.Context, rec *models.RegistrationRecord) error
	// FindDuplicates returns every record matching any active predicate.
	FindDuplicates(ctx context.Context, preds repository.Predicates) ([]models.RegistrationRecord, error)
	// ExistsByEmail reports whether a record with this leader email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
