package services

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brightscope/internal/domain"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

// ResolvePayload is the body of PATCH /admin/contact/submissions/{id}.
type ResolvePayload struct {
	IsResolved *bool `json:"is_resolved" validate:"required"`
}

// AdminService implements the staff-only contact inbox.
type AdminService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB, log zerolog.Logger) *AdminService {
	return &AdminService{db: db, log: log}
}

// ListSubmissions returns contact submissions newest first. A non-nil
// resolved filters on the resolution flag.
func (s *AdminService) ListSubmissions(ctx context.Context, resolved *bool) ([]domain.ContactSubmission, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if resolved != nil {
		q = q.Where("is_resolved = ?", *resolved)
	}
	var subs []domain.ContactSubmission
	if err := q.Find(&subs).Error; err != nil {
		return nil, apperrors.Internal("failed to list contact submissions", err)
	}
	return subs, nil
}

// ResolveSubmission sets the resolution flag of a submission.
func (s *AdminService) ResolveSubmission(ctx context.Context, id uint, p *ResolvePayload) (*domain.ContactSubmission, error) {
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	var sub domain.ContactSubmission
	if err := db.First(&sub, id).Error; err != nil {
		return nil, notFoundOr(err, "Contact submission")
	}
	if err := db.Model(&sub).Update("is_resolved", *p.IsResolved).Error; err != nil {
		return nil, apperrors.Internal("failed to update contact submission", err)
	}
	sub.IsResolved = *p.IsResolved
	s.log.Info().Uint("id", id).Bool("resolved", *p.IsResolved).Msg("contact submission updated")
	return &sub, nil
}
