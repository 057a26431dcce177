package domain

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// DefaultFeatureIcon is used when a feature is created without an icon.
const DefaultFeatureIcon = "fa-solid fa-star"

// Feature is an ordered selling point shown on the landing page.
type Feature struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	TitleAr       string    `gorm:"size:200" json:"title_ar"`
	Subtitle      *string   `gorm:"size:255" json:"subtitle"`
	SubtitleAr    *string   `gorm:"size:255" json:"subtitle_ar"`
	Alias         string    `gorm:"size:200;not null" json:"alias"`
	Description   *string   `gorm:"type:text" json:"description"`
	DescriptionAr *string   `gorm:"type:text" json:"description_ar"`
	Icon          *string   `gorm:"size:100" json:"icon"`
	Order         *int      `gorm:"column:sort_order;index" json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Feature
func (Feature) TableName() string {
	return "features"
}

// BeforeCreate assigns the next display order and default icon when unset.
func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.Icon == nil {
		icon := DefaultFeatureIcon
		f.Icon = &icon
	}
	if f.Order != nil {
		return nil
	}
	var last sql.NullInt64
	row := tx.Session(&gorm.Session{NewDB: true}).Model(&Feature{}).Select("MAX(sort_order)").Row()
	if err := row.Scan(&last); err != nil {
		return err
	}
	next := int(last.Int64) + 1
	f.Order = &next
	return nil
}
