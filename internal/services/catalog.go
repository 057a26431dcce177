package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"brightscope/internal/domain"
	"brightscope/internal/i18n"
	apperrors "brightscope/pkg/errors"
)

// ServiceListItem is a row of GET /service/services.
type ServiceListItem struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	ServiceType domain.ServiceType `json:"service_type"`
	Description string             `json:"description"`
	StartPrice  *int               `json:"start_price"`
	Icon        string             `json:"icon"`
	IsActive    bool               `json:"is_active"`
}

// ServiceFeatureView is a resolved service bullet point.
type ServiceFeatureView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// ServiceContentView is a resolved content block.
type ServiceContentView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ServiceRatingView is a resolved headline figure.
type ServiceRatingView struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Order       int    `json:"order"`
}

// PackageView is a resolved package.
type PackageView struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	PackageType domain.PackageType `json:"package_type"`
	Price       string             `json:"price"`
	SquareFeet  string             `json:"square_feet"`
	Duration    string             `json:"duration"`
	Description string             `json:"description"`
	IsActive    bool               `json:"is_active"`
	Order       int                `json:"order"`
}

// AddonView is a resolved addon with its category name.
type AddonView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        string `json:"price"`
	Category     *uint  `json:"category"`
	CategoryName string `json:"category_name,omitempty"`
	IsActive     bool   `json:"is_active"`
	Order        int    `json:"order"`
}

// ServiceDetail is the body of GET /service/services/{id}.
type ServiceDetail struct {
	ID              uint                 `json:"id"`
	Name            string               `json:"name"`
	ServiceType     domain.ServiceType   `json:"service_type"`
	Description     string               `json:"description"`
	StartPrice      *int                 `json:"start_price"`
	Icon            string               `json:"icon"`
	HeroTitle       string               `json:"hero_title"`
	SubHeroTitle    *string              `json:"sub_hero_title"`
	HeroDescription string               `json:"hero_description"`
	HeroImage       *string              `json:"hero_image"`
	Features        []ServiceFeatureView `json:"features"`
	Contents        []ServiceContentView `json:"contents"`
	Ratings         []ServiceRatingView  `json:"ratings"`
	Packages        []PackageView        `json:"packages"`
	Addons          []AddonView          `json:"addons"`
	IsActive        bool                 `json:"is_active"`
}

// CatalogService implements the read-only service catalog.
type CatalogService struct {
	db  *gorm.DB
	log zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(db *gorm.DB, log zerolog.Logger) *CatalogService {
	return &CatalogService{db: db, log: log}
}

// List returns active services, optionally of one type.
func (s *CatalogService) List(ctx context.Context, serviceType string, locale i18n.Locale) ([]ServiceListItem, error) {
	q := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id")
	if serviceType != "" {
		q = q.Where("service_type = ?", serviceType)
	}
	var services []domain.Service
	if err := q.Find(&services).Error; err != nil {
		return nil, apperrors.Internal("failed to list services", err)
	}

	items := make([]ServiceListItem, len(services))
	for i, svc := range services {
		items[i] = ServiceListItem{
			ID:          svc.ID,
			Name:        locale.Pick(svc.Name, svc.NameAr),
			ServiceType: svc.ServiceType,
			Description: locale.Pick(svc.Description, svc.DescriptionAr),
			StartPrice:  svc.StartPrice,
			Icon:        svc.Icon,
			IsActive:    svc.IsActive,
		}
	}
	return items, nil
}

// Get returns an active service with its nested collections.
func (s *CatalogService) Get(ctx context.Context, id uint, locale i18n.Locale) (*ServiceDetail, error) {
	byOrder := func(db *gorm.DB) *gorm.DB { return db.Order("sort_order, id") }

	var svc domain.Service
	err := s.db.WithContext(ctx).
		Preload("Features", byOrder).
		Preload("Contents", byOrder).
		Preload("Ratings", byOrder).
		Preload("Packages", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order, price, id")
		}).
		Preload("Addons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order, id")
		}).
		Preload("Addons.Category").
		Where("id = ? AND is_active = ?", id, true).
		First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("No Service matches the given query.")
		}
		return nil, apperrors.Internal("failed to load service", err)
	}

	detail := &ServiceDetail{
		ID:              svc.ID,
		Name:            locale.Pick(svc.Name, svc.NameAr),
		ServiceType:     svc.ServiceType,
		Description:     locale.Pick(svc.Description, svc.DescriptionAr),
		StartPrice:      svc.StartPrice,
		Icon:            svc.Icon,
		HeroTitle:       locale.Pick(svc.HeroTitle, svc.HeroTitleAr),
		SubHeroTitle:    locale.PickPtr(svc.SubHeroTitle, svc.SubHeroTitleAr),
		HeroDescription: locale.Pick(svc.HeroDescription, svc.HeroDescriptionAr),
		HeroImage:       svc.HeroImage,
		Features:        make([]ServiceFeatureView, len(svc.Features)),
		Contents:        make([]ServiceContentView, len(svc.Contents)),
		Ratings:         make([]ServiceRatingView, len(svc.Ratings)),
		Packages:        make([]PackageView, len(svc.Packages)),
		Addons:          make([]AddonView, len(svc.Addons)),
		IsActive:        svc.IsActive,
	}
	for i, f := range svc.Features {
		detail.Features[i] = ServiceFeatureView{
			ID:          f.ID,
			Name:        locale.Pick(f.Name, f.NameAr),
			Description: locale.Pick(f.Description, f.DescriptionAr),
			Icon:        f.Icon,
			Order:       f.Order,
		}
	}
	for i, c := range svc.Contents {
		detail.Contents[i] = ServiceContentView{ID: c.ID, Name: locale.Pick(c.Name, c.NameAr), Order: c.Order}
	}
	for i, r := range svc.Ratings {
		detail.Ratings[i] = ServiceRatingView{
			ID:          r.ID,
			Name:        locale.Pick(r.Name, r.NameAr),
			Description: locale.Pick(r.Description, r.DescriptionAr),
			Icon:        r.Icon,
			Order:       r.Order,
		}
	}
	for i, p := range svc.Packages {
		detail.Packages[i] = packageView(p, locale)
	}
	for i, a := range svc.Addons {
		detail.Addons[i] = addonView(a, locale)
	}
	return detail, nil
}

func packageView(p domain.Package, locale i18n.Locale) PackageView {
	return PackageView{
		ID:          p.ID,
		Name:        locale.Pick(p.Name, p.NameAr),
		PackageType: p.PackageType,
		Price:       money(p.Price),
		SquareFeet:  locale.Pick(p.SquareFeet, p.SquareFeetAr),
		Duration:    locale.Pick(p.Duration, p.DurationAr),
		Description: locale.Pick(p.Description, p.DescriptionAr),
		IsActive:    p.IsActive,
		Order:       p.Order,
	}
}

func addonView(a domain.Addon, locale i18n.Locale) AddonView {
	v := AddonView{
		ID:          a.ID,
		Name:        locale.Pick(a.Name, a.NameAr),
		Description: locale.Pick(a.Description, a.DescriptionAr),
		Price:       money(a.Price),
		Category:    a.CategoryID,
		IsActive:    a.IsActive,
		Order:       a.Order,
	}
	if a.Category != nil {
		v.CategoryName = locale.Pick(a.Category.Name, a.Category.NameAr)
	}
	return v
}

// money renders an amount with two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
