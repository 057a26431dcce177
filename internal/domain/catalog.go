package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceType enumerates the catalog's service lines.
type ServiceType string

const (
	ServiceHomeCleaning     ServiceType = "home_cleaning"
	ServiceDeepCleaning     ServiceType = "deep_cleaning"
	ServicePestControl      ServiceType = "pest_control"
	ServicePostConstruction ServiceType = "post_construction"
	ServiceOfficeCommercial ServiceType = "office_commercial"
)

// ServiceTypes lists accepted values.
var ServiceTypes = []ServiceType{
	ServiceHomeCleaning, ServiceDeepCleaning, ServicePestControl, ServicePostConstruction, ServiceOfficeCommercial,
}

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	for _, v := range ServiceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// PackageType enumerates package sizes.
type PackageType string

const (
	PackageStudio PackageType = "studio"
	Package2BHK   PackageType = "2bhk"
	PackageVilla  PackageType = "villa"
	PackageOffice PackageType = "office"
	PackageCustom PackageType = "custom"
)

// Service is a bookable service line. Children are removed with it.
type Service struct {
	ID                uint        `gorm:"primaryKey" json:"id"`
	Name              string      `gorm:"size:100;not null" json:"name"`
	NameAr            string      `gorm:"size:100" json:"name_ar"`
	StartPrice        *int        `json:"start_price"`
	ServiceType       ServiceType `gorm:"size:50;not null;index" json:"service_type"`
	Description       string      `gorm:"type:text;not null" json:"description"`
	DescriptionAr     string      `gorm:"type:text" json:"description_ar"`
	Icon              string      `gorm:"size:100" json:"icon"`
	IsActive          bool        `gorm:"not null;index" json:"is_active"`
	HeroTitle         string      `gorm:"size:200" json:"hero_title"`
	HeroTitleAr       string      `gorm:"size:200" json:"hero_title_ar"`
	SubHeroTitle      *string     `gorm:"size:200" json:"sub_hero_title"`
	SubHeroTitleAr    *string     `gorm:"size:200" json:"sub_hero_title_ar"`
	HeroDescription   string      `gorm:"type:text" json:"hero_description"`
	HeroDescriptionAr string      `gorm:"type:text" json:"hero_description_ar"`
	HeroImage         *string     `gorm:"size:255" json:"hero_image"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`

	Features []ServiceFeature `gorm:"constraint:OnDelete:CASCADE" json:"features,omitempty"`
	Contents []ServiceContent `gorm:"constraint:OnDelete:CASCADE" json:"contents,omitempty"`
	Ratings  []ServiceRating  `gorm:"constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	Packages []Package        `gorm:"constraint:OnDelete:CASCADE" json:"packages,omitempty"`
	Addons   []Addon          `gorm:"constraint:OnDelete:CASCADE" json:"addons,omitempty"`
}

// TableName specifies the table name for Service
func (Service) TableName() string {
	return "services"
}

// ServiceFeature is a bullet point on a service page.
type ServiceFeature struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ServiceID     uint      `gorm:"not null;index" json:"service_id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	NameAr        string    `gorm:"size:200" json:"name_ar"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionAr string    `gorm:"type:text" json:"description_ar"`
	Icon          string    `gorm:"size:100" json:"icon"`
	Order         int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for ServiceFeature
func (ServiceFeature) TableName() string {
	return "service_features"
}

// ServiceContent is a content block on a service page.
type ServiceContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ServiceID uint      `gorm:"not null;index" json:"service_id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	NameAr    string    `gorm:"size:200" json:"name_ar"`
	Order     int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for ServiceContent
func (ServiceContent) TableName() string {
	return "service_contents"
}

// ServiceRating is a headline figure ("5000+ happy customers") on a service page.
type ServiceRating struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ServiceID     uint      `gorm:"not null;index" json:"service_id"`
	Name          string    `gorm:"size:200;not null" json:"name"`
	NameAr        string    `gorm:"size:200" json:"name_ar"`
	Description   string    `gorm:"size:200" json:"description"`
	DescriptionAr string    `gorm:"size:200" json:"description_ar"`
	Icon          string    `gorm:"size:100" json:"icon"`
	Order         int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for ServiceRating
func (ServiceRating) TableName() string {
	return "service_ratings"
}

// Package is a priced tier of a service.
type Package struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ServiceID     uint            `gorm:"not null;index" json:"service_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	NameAr        string          `gorm:"size:100" json:"name_ar"`
	PackageType   PackageType     `gorm:"size:20;not null" json:"package_type"`
	Price         decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	SquareFeet    string          `gorm:"size:100" json:"square_feet"`
	SquareFeetAr  string          `gorm:"size:100" json:"square_feet_ar"`
	Duration      string          `gorm:"size:100" json:"duration"`
	DurationAr    string          `gorm:"size:100" json:"duration_ar"`
	Description   string          `gorm:"type:text" json:"description"`
	DescriptionAr string          `gorm:"type:text" json:"description_ar"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	Order         int             `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Package
func (Package) TableName() string {
	return "packages"
}

// AddonCategory groups addons on the booking form.
type AddonCategory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	NameAr        string    `gorm:"size:100" json:"name_ar"`
	Description   string    `gorm:"type:text" json:"description"`
	DescriptionAr string    `gorm:"type:text" json:"description_ar"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	Order         int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for AddonCategory
func (AddonCategory) TableName() string {
	return "addon_categories"
}

// Addon is an optional extra priced on top of a package.
type Addon struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ServiceID     uint            `gorm:"not null;index" json:"service_id"`
	CategoryID    *uint           `gorm:"index" json:"category_id"`
	Category      *AddonCategory  `gorm:"constraint:OnDelete:CASCADE" json:"category,omitempty"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	NameAr        string          `gorm:"size:100" json:"name_ar"`
	Description   string          `gorm:"type:text" json:"description"`
	DescriptionAr string          `gorm:"type:text" json:"description_ar"`
	Price         decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"price"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
	Order         int             `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Addon
func (Addon) TableName() string {
	return "addons"
}
