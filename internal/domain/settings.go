package domain

import (
	"time"
)

// ContactInfoID is the primary key of the one and only ContactInfo row.
const ContactInfoID uint = 1

// ContactInfo holds company-wide footer and contact details.
type ContactInfo struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement:false;check:id = 1" json:"id"`
	CompanyName        string    `gorm:"size:200;not null" json:"company_name"`
	CompanyNameAr      string    `gorm:"size:200" json:"company_name_ar"`
	Tagline            string    `gorm:"type:text" json:"tagline"`
	TaglineAr          string    `gorm:"type:text" json:"tagline_ar"`
	PhoneNumber        string    `gorm:"size:20" json:"phone_number"`
	WhatsAppNumber     string    `gorm:"column:whatsapp_number;size:20" json:"whatsapp_number"`
	Email              string    `gorm:"size:254" json:"email"`
	Address            string    `gorm:"type:text" json:"address"`
	AddressAr          string    `gorm:"type:text" json:"address_ar"`
	Building           string    `gorm:"size:100" json:"building"`
	BuildingAr         string    `gorm:"size:100" json:"building_ar"`
	Office             string    `gorm:"size:50" json:"office"`
	OfficeAr           string    `gorm:"size:50" json:"office_ar"`
	MonFriHours        string    `gorm:"size:100" json:"mon_fri_hours"`
	MonFriHoursAr      string    `gorm:"size:100" json:"mon_fri_hours_ar"`
	SaturdayHours      string    `gorm:"size:100" json:"saturday_hours"`
	SaturdayHoursAr    string    `gorm:"size:100" json:"saturday_hours_ar"`
	SundayHours        string    `gorm:"size:100" json:"sunday_hours"`
	SundayHoursAr      string    `gorm:"size:100" json:"sunday_hours_ar"`
	EmergencyAvailable bool      `gorm:"not null" json:"emergency_available"`
	FacebookURL        string    `gorm:"size:255" json:"facebook_url"`
	InstagramURL       string    `gorm:"size:255" json:"instagram_url"`
	LinkedInURL        string    `gorm:"column:linkedin_url;size:255" json:"linkedin_url"`
	TwitterURL         string    `gorm:"size:255" json:"twitter_url"`
	YouTubeURL         string    `gorm:"column:youtube_url;size:255" json:"youtube_url"`
	CopyrightText      string    `gorm:"size:200" json:"copyright_text"`
	CopyrightTextAr    string    `gorm:"size:200" json:"copyright_text_ar"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for ContactInfo
func (ContactInfo) TableName() string {
	return "contact_info"
}

// DefaultContactInfo is the row created on first read.
func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		ID:                 ContactInfoID,
		CompanyName:        "Bright Scope UAE",
		Tagline:            "Your trusted cleaning and pest control partner in Dubai. 15+ years of excellence from Egypt to the UAE, serving thousands of satisfied customers.",
		PhoneNumber:        "+971 XXX XXX XXX",
		WhatsAppNumber:     "+971 XXX XXX XXX",
		Address:            "Business Bay, Dubai, UAE",
		Building:           "Building XYZ",
		Office:             "Office 123",
		MonFriHours:        "8:00 AM - 8:00 PM",
		SaturdayHours:      "9:00 AM - 6:00 PM",
		SundayHours:        "10:00 AM - 5:00 PM",
		EmergencyAvailable: true,
		CopyrightText:      "© 2024 Bright Scope Dubai. All rights reserved.",
	}
}

// NewsletterSubscriber is a newsletter mailing list entry.
type NewsletterSubscriber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for NewsletterSubscriber
func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
