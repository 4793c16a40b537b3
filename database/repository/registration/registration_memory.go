package registrationRepo

import (
	"context"
	"sync"

	"vexstorm/database/repository"
	"vexstorm/models"
)

// MemoryRegistrationRepo keeps records in process memory. It enforces the
// same uniqueness rules as the Mongo indexes.
type MemoryRegistrationRepo struct {
	mu      sync.RWMutex
	records []models.RegistrationRecord
}

func NewMemoryRegistrationRepo() *MemoryRegistrationRepo {
	return &MemoryRegistrationRepo{}
}

func fieldValues(rec models.RegistrationRecord) map[string]string {
	values := map[string]string{
		repository.FieldLeaderEmail:   rec.LeaderEmailKey,
		repository.FieldTransactionID: rec.TransactionID,
	}
	if rec.TeamKey != "" {
		values[repository.FieldTeamName] = rec.TeamKey
	}
	if rec.DeviceID != "" {
		values[repository.FieldDeviceID] = rec.DeviceID
	}
	return values
}

func (r *MemoryRegistrationRepo) Insert(_ context.Context, rec *models.RegistrationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	incoming := repository.Predicates{
		repository.Always(repository.FieldLeaderEmail, rec.LeaderEmailKey),
		repository.Always(repository.FieldTeamName, rec.TeamKey),
		repository.Always(repository.FieldTransactionID, rec.TransactionID),
		repository.Always(repository.FieldDeviceID, rec.DeviceID),
	}
	for _, existing := range r.records {
		if incoming.Matches(fieldValues(existing)) {
			return repository.ErrDuplicate
		}
	}
	r.records = append(r.records, *rec)
	return nil
}

func (r *MemoryRegistrationRepo) FindDuplicates(_ context.Context, preds repository.Predicates) ([]models.RegistrationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.RegistrationRecord
	for _, rec := range r.records {
		if preds.Matches(fieldValues(rec)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *MemoryRegistrationRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := repository.NormalizeKey(email)
	for _, rec := range r.records {
		if rec.LeaderEmailKey == key {
			return true, nil
		}
	}
	return false, nil
}

// All returns a copy of the stored records.
func (r *MemoryRegistrationRepo) All() []models.RegistrationRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.RegistrationRecord(nil), r.records...)
}
