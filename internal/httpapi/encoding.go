package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	goahttp "goa.design/goa/v3/http"
	goamiddleware "goa.design/goa/v3/middleware"

	"brightscope/internal/i18n"
	apperrors "brightscope/pkg/errors"
)

// request is the decoded form of an incoming call.
type request struct {
	locale i18n.Locale
	vars   map[string]string
	query  url.Values
	body   any
}

// id parses a numeric path parameter. Non-numeric ids cannot match a row.
func (r *request) id(name string) (uint, error) {
	n, err := strconv.ParseUint(r.vars[name], 10, 64)
	if err != nil || n == 0 {
		return 0, apperrors.NotFound("Not found.")
	}
	return uint(n), nil
}

func newBody[T any]() func() any {
	return func() any { return new(T) }
}

// decoder builds a decodeFunc. When newBody is non-nil the JSON body is
// decoded into the value it returns.
func (s *Server) decoder(newBody func() any) decodeFunc {
	return func(r *http.Request) (any, error) {
		req := &request{
			locale: i18n.FromRequest(r),
			vars:   s.mux.Vars(r),
			query:  r.URL.Query(),
		}
		if newBody == nil {
			return req, nil
		}
		req.body = newBody()
		if err := decodeBody(r, req.body); err != nil {
			return nil, err
		}
		return req, nil
	}
}

// decodeBody reads a JSON body. An empty body decodes to the zero value so
// field validation reports what is missing.
func decodeBody(r *http.Request, v any) error {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.BadRequest("JSON parse error - " + err.Error())
	}
	return nil
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data")
}

// errorBody is the envelope of every failed call.
type errorBody struct {
	Code      apperrors.ErrorCode   `json:"code"`
	Error     string                `json:"error"`
	Message   string                `json:"message"`
	Errors    apperrors.FieldErrors `json:"errors,omitempty"`
	RequestID string                `json:"request_id,omitempty"`
}

func (s *Server) encodeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal("An unexpected error occurred.", err)
	}
	status := appErr.Status()
	requestID, _ := ctx.Value(goamiddleware.RequestIDKey).(string)

	event := s.log.Debug()
	if status >= http.StatusInternalServerError {
		event = s.log.Error()
	}
	event.Err(err).Int("status", status).Str("request_id", requestID).Msg("request failed")

	message := appErr.Message
	if appErr.Code == apperrors.ErrCodeInternalError {
		message = "An unexpected error occurred."
	}
	body := errorBody{
		Code:      appErr.Code,
		Error:     message,
		Message:   message,
		Errors:    appErr.Fields,
		RequestID: requestID,
	}
	if err := respond(status)(ctx, w, body); err != nil {
		s.log.Error().Err(err).Msg("failed to encode error response")
	}
}
