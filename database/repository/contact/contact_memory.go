package contactRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"vexstorm/models"
)

// MemoryContactRepo keeps inquiries in process memory.
type MemoryContactRepo struct {
	mu        sync.RWMutex
	inquiries []models.ContactInquiry
}

func NewMemoryContactRepo() *MemoryContactRepo {
	return &MemoryContactRepo{}
}

func (r *MemoryContactRepo) Insert(_ context.Context, inquiry *models.ContactInquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inquiries = append(r.inquiries, *inquiry)
	return nil
}

func (r *MemoryContactRepo) ListSince(_ context.Context, since time.Time) ([]models.ContactInquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.ContactInquiry
	for _, inq := range r.inquiries {
		if !inq.CreatedAt.Before(since) {
			out = append(out, inq)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Len returns the number of stored inquiries.
func (r *MemoryContactRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.inquiries)
}
