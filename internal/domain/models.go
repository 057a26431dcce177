package domain

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&User{},
		&BlacklistedToken{},
		&ContactSubmission{},
		&ContactMethod{},
		&OfficeLocation{},
		&Feature{},
		&Service{},
		&ServiceFeature{},
		&ServiceContent{},
		&ServiceRating{},
		&Package{},
		&AddonCategory{},
		&Addon{},
		&Booking{},
		&Payment{},
		&ContactInfo{},
		&NewsletterSubscriber{},
	}
}
