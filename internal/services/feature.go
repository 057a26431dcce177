package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brightscope/internal/domain"
	"brightscope/internal/i18n"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

// FeatureView is a landing page feature with bilingual fields resolved.
type FeatureView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Subtitle    *string   `json:"subtitle"`
	Alias       string    `json:"alias"`
	Description *string   `json:"description"`
	Icon        string    `json:"icon"`
	Order       *int      `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeaturePayload is the body of POST /admin/features.
type FeaturePayload struct {
	Title         string  `json:"title" validate:"required,max=200"`
	TitleAr       string  `json:"title_ar" validate:"max=200"`
	Subtitle      *string `json:"subtitle" validate:"omitempty,max=255"`
	SubtitleAr    *string `json:"subtitle_ar" validate:"omitempty,max=255"`
	Alias         string  `json:"alias" validate:"required,max=200"`
	Description   *string `json:"description"`
	DescriptionAr *string `json:"description_ar"`
	Icon          *string `json:"icon" validate:"omitempty,max=100"`
	Order         *int    `json:"order" validate:"omitempty,min=0"`
}

// FeatureService implements the landing page feature list.
type FeatureService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewFeatureService creates a new feature service
func NewFeatureService(db *gorm.DB, log zerolog.Logger) *FeatureService {
	return &FeatureService{db: db, log: log}
}

// List returns every feature in display order.
func (s *FeatureService) List(ctx context.Context, locale i18n.Locale) ([]FeatureView, error) {
	var features []domain.Feature
	if err := s.db.WithContext(ctx).Order("sort_order, id").Find(&features).Error; err != nil {
		return nil, apperrors.Internal("failed to list features", err)
	}
	views := make([]FeatureView, len(features))
	for i := range features {
		views[i] = featureView(&features[i], locale)
	}
	return views, nil
}

// Get returns one feature.
func (s *FeatureService) Get(ctx context.Context, id uint, locale i18n.Locale) (*FeatureView, error) {
	var f domain.Feature
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No Feature matches the given query.")
		}
		return nil, apperrors.Internal("failed to load feature", err)
	}
	v := featureView(&f, locale)
	return &v, nil
}

// Create adds a feature. Without an explicit order it goes last.
func (s *FeatureService) Create(ctx context.Context, p *FeaturePayload) (*domain.Feature, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Alias = strings.TrimSpace(p.Alias)
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	f := domain.Feature{
		Title:         p.Title,
		TitleAr:       p.TitleAr,
		Subtitle:      p.Subtitle,
		SubtitleAr:    p.SubtitleAr,
		Alias:         p.Alias,
		Description:   p.Description,
		DescriptionAr: p.DescriptionAr,
		Icon:          p.Icon,
		Order:         p.Order,
	}
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, apperrors.Internal("failed to create feature", err)
	}
	s.log.Info().Uint("id", f.ID).Int("order", *f.Order).Msg("feature created")
	return &f, nil
}

func featureView(f *domain.Feature, locale i18n.Locale) FeatureView {
	icon := domain.DefaultFeatureIcon
	if f.Icon != nil && *f.Icon != "" {
		icon = *f.Icon
	}
	return FeatureView{
		ID:          f.ID,
		Title:       locale.Pick(f.Title, f.TitleAr),
		Subtitle:    locale.PickPtr(f.Subtitle, f.SubtitleAr),
		Alias:       f.Alias,
		Description: locale.PickPtr(f.Description, f.DescriptionAr),
		Icon:        icon,
		Order:       f.Order,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}
