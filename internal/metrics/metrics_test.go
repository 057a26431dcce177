package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEndpointLabel(t *testing.T) {
	cases := map[string]string{
		"/":                                   "/",
		"/service/services/12":                "/service/services/:id",
		"/service/services/12/":               "/service/services/:id",
		"/account/reset-password/MTI/abc.def": "/account/reset-password/:token/:token",
		"/payments/verify/TST2000":            "/payments/verify/:token",
		"/contact/info":                       "/contact/info",
	}
	for in, want := range cases {
		assert.Equal(t, want, EndpointLabel(in), in)
	}
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	h := PrometheusMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/service/bookings", "201"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/service/bookings", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/service/bookings", "201"))

	assert.Equal(t, before+1, after)
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(paymentsTotal.WithLabelValues("SUCCESS"))
	RecordPaymentStatus("SUCCESS")
	assert.Equal(t, before+1, testutil.ToFloat64(paymentsTotal.WithLabelValues("SUCCESS")))

	before = testutil.ToFloat64(newsletterSubscriptionsTotal.WithLabelValues("existing"))
	RecordNewsletterSubscription(false)
	assert.Equal(t, before+1, testutil.ToFloat64(newsletterSubscriptionsTotal.WithLabelValues("existing")))
}
