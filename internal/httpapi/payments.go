package httpapi

import (
	"context"
	"net/http"

	"brightscope/internal/services"
)

// tranRefRequest carries the gateway reference of a callback or return.
type tranRefRequest struct {
	TranRef string `json:"tran_ref"`
}

// decodeTranRef accepts the reference from a form post, a JSON body or the
// query string. PayTabs posts tranRef on the customer return.
func decodeTranRef(r *http.Request) (any, error) {
	switch {
	case isForm(r):
		if err := r.ParseForm(); err == nil {
			if ref := r.PostForm.Get("tran_ref"); ref != "" {
				return ref, nil
			}
			if ref := r.PostForm.Get("tranRef"); ref != "" {
				return ref, nil
			}
		}
	case r.Method == http.MethodPost:
		var body tranRefRequest
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		if body.TranRef != "" {
			return body.TranRef, nil
		}
	}
	q := r.URL.Query()
	if ref := q.Get("tran_ref"); ref != "" {
		return ref, nil
	}
	return q.Get("tranRef"), nil
}

func (s *Server) paymentRoutes() []route {
	pay := s.svc.Payments
	ret := func(ctx context.Context, v any) (any, error) {
		return pay.Return(ctx, v.(string)), nil
	}
	return []route{
		{
			name: "payment_create", method: http.MethodPost, path: "/payments/create",
			decode: s.decoder(newBody[services.PaymentPayload]()),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return pay.Create(ctx, v.(*request).body.(*services.PaymentPayload))
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "payment_callback", method: http.MethodPost, path: "/payments/callback",
			decode: decodeTranRef,
			endpoint: func(ctx context.Context, v any) (any, error) {
				return pay.Callback(ctx, v.(string))
			},
			encode: respond(http.StatusOK),
		},
		{
			name: "payment_return", method: http.MethodGet, path: "/payments/return",
			decode: decodeTranRef, endpoint: ret, encode: redirect,
		},
		{
			name: "payment_return_post", method: http.MethodPost, path: "/payments/return",
			decode: decodeTranRef, endpoint: ret, encode: redirect,
		},
		{
			name: "payment_verify", method: http.MethodGet, path: "/payments/verify/{tran_ref}",
			decode: s.decoder(nil),
			endpoint: func(ctx context.Context, v any) (any, error) {
				return pay.Verify(ctx, v.(*request).vars["tran_ref"])
			},
			encode: respond(http.StatusOK),
		},
	}
}
