// Package i18n resolves the response language for bilingual content.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// Locale is one of the two content languages.
type Locale string

const (
	English Locale = "en"
	Arabic  Locale = "ar"
)

// FromRequest picks the locale from ?lang=, then Accept-Language, then English.
func FromRequest(r *http.Request) Locale {
	switch strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang"))) {
	case "ar":
		return Arabic
	case "en":
		return English
	}
	return fromAcceptLanguage(r.Header.Get("Accept-Language"))
}

func fromAcceptLanguage(header string) Locale {
	if header == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		// Unparseable headers still count when they mention Arabic.
		if strings.Contains(strings.ToLower(header), "ar") {
			return Arabic
		}
		return English
	}
	for _, tag := range tags {
		if base, _ := tag.Base(); base.String() == "ar" {
			return Arabic
		}
	}
	return English
}

// Pick returns ar for Arabic requests when it is non-empty, en otherwise.
func (l Locale) Pick(en, ar string) string {
	if l == Arabic && strings.TrimSpace(ar) != "" {
		return ar
	}
	return en
}

// PickPtr is Pick for nullable columns.
func (l Locale) PickPtr(en, ar *string) *string {
	if l == Arabic && ar != nil && strings.TrimSpace(*ar) != "" {
		return ar
	}
	return en
}

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}
