package domain

import (
	"time"
)

// ContactServiceType is the service a visitor asks about on the contact form.
type ContactServiceType string

const (
	ContactResidential ContactServiceType = "residential"
	ContactCommercial  ContactServiceType = "commercial"
	ContactDeepClean   ContactServiceType = "deep_clean"
	ContactMoveInOut   ContactServiceType = "move_in_out"
	ContactOther       ContactServiceType = "other"
)

// ContactServiceTypes lists accepted values in display order.
var ContactServiceTypes = []ContactServiceType{
	ContactResidential, ContactCommercial, ContactDeepClean, ContactMoveInOut, ContactOther,
}

// Valid reports whether t is a known service type.
func (t ContactServiceType) Valid() bool {
	for _, v := range ContactServiceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ContactSubmission represents a contact form submission
type ContactSubmission struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	FullName    string             `gorm:"size:200;not null" json:"full_name"`
	PhoneNumber string             `gorm:"size:17;not null" json:"phone_number"`
	Email       string             `gorm:"size:254;not null;index" json:"email"`
	ServiceType ContactServiceType `gorm:"size:20;not null" json:"service_type"`
	Message     string             `gorm:"type:text;not null" json:"message"`
	IsResolved  bool               `gorm:"not null" json:"is_resolved"`
	CreatedAt   time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// TableName specifies the table name for ContactSubmission
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

// ContactMethodType identifies a channel visitors can reach the business on.
type ContactMethodType string

const (
	MethodPhone    ContactMethodType = "phone"
	MethodWhatsApp ContactMethodType = "whatsapp"
	MethodEmail    ContactMethodType = "email"
)

// ContactMethod is a publicly listed contact channel.
type ContactMethod struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Icon          string            `gorm:"size:100;default:'fa-solid fa-map-pin'" json:"icon"`
	MethodType    ContactMethodType `gorm:"size:20;uniqueIndex;not null" json:"method_type"`
	Title         string            `gorm:"size:100;not null" json:"title"`
	TitleAr       string            `gorm:"size:100" json:"title_ar"`
	Description   string            `gorm:"type:text" json:"description"`
	DescriptionAr string            `gorm:"type:text" json:"description_ar"`
	Value         string            `gorm:"size:200;not null" json:"value"`
	ActionText    string            `gorm:"size:50" json:"action_text"`
	ActionTextAr  string            `gorm:"size:50" json:"action_text_ar"`
	IsActive      bool              `gorm:"not null" json:"is_active"`
	Order         int               `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// TableName specifies the table name for ContactMethod
func (ContactMethod) TableName() string {
	return "contact_methods"
}

// OfficeLocation is a physical office shown on the contact page.
type OfficeLocation struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	Icon                   string    `gorm:"size:100;default:'fa-solid fa-map-pin'" json:"icon"`
	Title                  string    `gorm:"size:255;not null" json:"title"`
	TitleAr                string    `gorm:"size:255" json:"title_ar"`
	Description            string    `gorm:"size:255" json:"description"`
	DescriptionAr          string    `gorm:"size:255" json:"description_ar"`
	OfficeName             string    `gorm:"size:100;not null" json:"office_name"`
	OfficeNameAr           string    `gorm:"size:100" json:"office_name_ar"`
	OfficeAddress          string    `gorm:"size:100" json:"office_address"`
	OfficeAddressAr        string    `gorm:"size:100" json:"office_address_ar"`
	WorkingHoursName       string    `gorm:"size:100" json:"working_hours_name"`
	WorkingHoursNameAr     string    `gorm:"size:100" json:"working_hours_name_ar"`
	WorkingHoursWeekdays   string    `gorm:"size:200" json:"working_hours_weekdays"`
	WorkingHoursWeekdaysAr string    `gorm:"size:200" json:"working_hours_weekdays_ar"`
	GoogleMapsLink         *string   `gorm:"size:500" json:"google_maps_link"`
	IsPrimary              bool      `gorm:"not null" json:"is_primary"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// TableName specifies the table name for OfficeLocation
func (OfficeLocation) TableName() string {
	return "office_locations"
}
