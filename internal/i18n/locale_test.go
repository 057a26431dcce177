package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		header string
		want   Locale
	}{
		{"default", "/x", "", English},
		{"query ar", "/x?lang=ar", "", Arabic},
		{"query upper", "/x?lang=AR", "", Arabic},
		{"query wins over header", "/x?lang=en", "ar-AE", English},
		{"unknown query falls through", "/x?lang=fr", "ar", Arabic},
		{"header ar", "/x", "ar-AE,ar;q=0.9,en;q=0.8", Arabic},
		{"header secondary ar", "/x", "en-US,ar;q=0.5", Arabic},
		{"header en only", "/x", "en-GB,en;q=0.9", English},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			if tc.header != "" {
				r.Header.Set("Accept-Language", tc.header)
			}
			assert.Equal(t, tc.want, FromRequest(r))
		})
	}
}

func TestPickFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "تنظيف", Arabic.Pick("Cleaning", "تنظيف"))
	assert.Equal(t, "Cleaning", English.Pick("Cleaning", "تنظيف"))
	assert.Equal(t, "Cleaning", Arabic.Pick("Cleaning", ""))
	assert.Equal(t, "Cleaning", Arabic.Pick("Cleaning", "   "))

	en, ar := "Tagline", ""
	assert.Equal(t, &en, Arabic.PickPtr(&en, &ar))
	assert.Equal(t, &en, Arabic.PickPtr(&en, nil))
}
