package contactRepo

import (
	"context"
	"time"

	"vexstorm/models"
)

// ContactRepository persists contact-form inquiries. No uniqueness rules apply.
type ContactRepository interface {
	Insert(ctx context.Context, inquiry *models.ContactInquiry) error
	// ListSince returns inquiries created at or after since, oldest first.
	ListSince(ctx context.Context, since time.Time) ([]models.ContactInquiry, error)
}
