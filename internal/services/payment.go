package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/domain"
	"brightscope/internal/events"
	"brightscope/internal/metrics"
	"brightscope/internal/payments"
	"brightscope/internal/validation"
	apperrors "brightscope/pkg/errors"
)

const paymentInitFailed = "Unable to initiate payment."

// PaymentPayload is the body of POST /payments/create.
type PaymentPayload struct {
	OrderID       string          `json:"order_id" validate:"required,max=100"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"omitempty,max=10"`
	CustomerEmail string          `json:"customer_email" validate:"required,email,max=254"`
	CustomerName  string          `json:"customer_name" validate:"required,max=120"`
}

// PaymentSession is returned when a hosted payment page was opened.
type PaymentSession struct {
	PaymentURL           string               `json:"payment_url"`
	TransactionReference string               `json:"transaction_reference"`
	Status               domain.PaymentStatus `json:"status"`
}

// PaymentView is the read representation of a payment.
type PaymentView struct {
	ID                   uint                 `json:"id"`
	OrderID              string               `json:"order_id"`
	TransactionReference *string              `json:"transaction_reference"`
	Amount               string               `json:"amount"`
	Currency             string               `json:"currency"`
	Status               domain.PaymentStatus `json:"status"`
	CustomerEmail        string               `json:"customer_email"`
	CustomerName         string               `json:"customer_name"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// PaymentService opens gateway sessions and applies gateway outcomes.
type PaymentService struct {
	db         *gorm.DB
	gateway    payments.Gateway
	events     events.Publisher
	successURL string
	failureURL string
	log        zerolog.Logger
	now        func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, gateway payments.Gateway, pub events.Publisher, frontend config.FrontendConfig, log zerolog.Logger) *PaymentService {
	return &PaymentService{
		db:         db,
		gateway:    gateway,
		events:     pub,
		successURL: frontend.PaymentSuccessURL,
		failureURL: frontend.PaymentFailureURL,
		log:        log,
		now:        time.Now,
	}
}

// Create records an INITIATED payment and opens a gateway session for it.
// A gateway failure leaves the payment FAILED without a reference.
func (s *PaymentService) Create(ctx context.Context, p *PaymentPayload) (*PaymentSession, error) {
	p.OrderID = strings.TrimSpace(p.OrderID)
	p.CustomerEmail = strings.ToLower(strings.TrimSpace(p.CustomerEmail))
	p.CustomerName = strings.TrimSpace(p.CustomerName)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = domain.DefaultCurrency
	}

	fields := apperrors.FieldErrors{}
	switch {
	case !p.Amount.IsPositive():
		fields.Add("amount", "Amount must be greater than zero.")
	case !p.Amount.Equal(p.Amount.Round(2)):
		fields.Add("amount", "Ensure that there are no more than 2 decimal places.")
	case p.Amount.GreaterThanOrEqual(decimal.New(1, 8)):
		fields.Add("amount", "Ensure that there are no more than 10 digits in total.")
	}
	if err := validation.Merge(validation.Struct(p), fields); err != nil {
		return nil, err
	}

	payment := domain.Payment{
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        domain.PaymentInitiated,
		CustomerEmail: p.CustomerEmail,
		CustomerName:  p.CustomerName,
	}
	db := s.db.WithContext(ctx)
	if err := db.Create(&payment).Error; err != nil {
		return nil, apperrors.Internal("failed to create payment", err)
	}

	started := time.Now()
	session, err := s.gateway.CreateSession(ctx, payments.SessionRequest{
		OrderID:       payment.OrderID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		CustomerName:  payment.CustomerName,
		CustomerEmail: payment.CustomerEmail,
	})
	if err == nil && session.TranRef == "" {
		err = errors.New("gateway returned no transaction reference")
	}
	metrics.RecordGatewayRequest("create", time.Since(started), err)
	if err != nil {
		s.log.Error().Err(err).Str("order_id", payment.OrderID).Msg("paytabs session failed")
		if _, terr := s.transition(ctx, &payment, domain.PaymentFailed, payment.LastEventSeq); terr != nil {
			s.log.Error().Err(terr).Uint("payment_id", payment.ID).Msg("failed to mark payment failed")
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeBadGateway, paymentInitFailed, err)
	}

	ref := session.TranRef
	res := db.Model(&domain.Payment{}).
		Where("id = ? AND status = ?", payment.ID, domain.PaymentInitiated).
		Updates(map[string]any{"transaction_reference": ref, "updated_at": s.now().UTC()})
	if res.Error != nil {
		return nil, apperrors.Internal("failed to store transaction reference", res.Error)
	}

	s.log.Info().Uint("payment_id", payment.ID).Str("order_id", payment.OrderID).Str("tran_ref", ref).Msg("payment initiated")
	return &PaymentSession{
		PaymentURL:           session.RedirectURL,
		TransactionReference: ref,
		Status:               domain.PaymentInitiated,
	}, nil
}

// Callback handles the gateway's server-to-server notification. Unknown
// references are acknowledged so the gateway stops retrying.
func (s *PaymentService) Callback(ctx context.Context, tranRef string) (*MessageResult, error) {
	tranRef = strings.TrimSpace(tranRef)
	if tranRef == "" {
		return nil, apperrors.BadRequest("Missing transaction reference.")
	}
	payment, err := s.Reconcile(ctx, tranRef)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.log.Warn().Str("tran_ref", tranRef).Msg("callback for unknown payment")
			return &MessageResult{Message: "Callback received."}, nil
		}
		return nil, err
	}
	s.log.Info().Str("order_id", payment.OrderID).Str("status", string(payment.Status)).Msg("callback processed")
	return &MessageResult{Message: "Callback processed successfully."}, nil
}

// Return verifies the transaction the customer came back with and picks the
// frontend page to send them to.
func (s *PaymentService) Return(ctx context.Context, tranRef string) string {
	tranRef = strings.TrimSpace(tranRef)
	if tranRef == "" {
		return s.failureURL
	}
	payment, err := s.Reconcile(ctx, tranRef)
	if err != nil {
		s.log.Warn().Err(err).Str("tran_ref", tranRef).Msg("payment return could not be verified")
		return withTranRef(s.failureURL, tranRef)
	}
	if payment.Status == domain.PaymentSuccess {
		return withTranRef(s.successURL, tranRef)
	}
	return withTranRef(s.failureURL, tranRef)
}

// Verify reconciles a transaction and reports its status.
func (s *PaymentService) Verify(ctx context.Context, tranRef string) (*PaymentView, error) {
	payment, err := s.Reconcile(ctx, strings.TrimSpace(tranRef))
	if err != nil {
		return nil, err
	}
	v := paymentView(payment)
	return &v, nil
}

// List returns payments newest first, optionally in one status.
func (s *PaymentService) List(ctx context.Context, status string) ([]PaymentView, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	var rows []domain.Payment
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to list payments", err)
	}
	views := make([]PaymentView, len(rows))
	for i := range rows {
		views[i] = paymentView(&rows[i])
	}
	return views, nil
}

// Reconcile asks the gateway for the authoritative outcome of tranRef and
// applies it. Payments already in a terminal state are returned untouched.
func (s *PaymentService) Reconcile(ctx context.Context, tranRef string) (*domain.Payment, error) {
	var payment domain.Payment
	if err := s.db.WithContext(ctx).Where("transaction_reference = ?", tranRef).First(&payment).Error; err != nil {
		return nil, notFoundOr(err, "Payment")
	}
	if payment.Status.IsTerminal() {
		s.log.Debug().Str("tran_ref", tranRef).Str("status", string(payment.Status)).Msg("payment already settled")
		return &payment, nil
	}

	started := time.Now()
	result, err := s.gateway.Query(ctx, tranRef)
	metrics.RecordGatewayRequest("query", time.Since(started), err)

	next, seq := domain.PaymentFailed, payment.LastEventSeq
	if err != nil {
		s.log.Error().Err(err).Str("tran_ref", tranRef).Msg("paytabs verification failed")
	} else {
		if result.CartID != "" && result.CartID != payment.OrderID {
			s.log.Warn().Str("tran_ref", tranRef).Str("cart_id", result.CartID).Str("order_id", payment.OrderID).
				Msg("gateway cart id does not match order")
		}
		if result.Approved() {
			next = domain.PaymentSuccess
		}
		if es := result.EventSeq(); es > seq {
			seq = es
		}
	}

	applied, err := s.transition(ctx, &payment, next, seq)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost to a concurrent delivery; report what won.
		if err := s.db.WithContext(ctx).First(&payment, payment.ID).Error; err != nil {
			return nil, apperrors.Internal("failed to reload payment", err)
		}
	}
	return &payment, nil
}

// transition moves payment from INITIATED to next. The conditional update
// makes concurrent deliveries race safely: only one of them applies and
// stale event sequences never overwrite newer ones.
func (s *PaymentService) transition(ctx context.Context, payment *domain.Payment, next domain.PaymentStatus, seq int64) (bool, error) {
	if !payment.Status.CanTransition(next) {
		return false, nil
	}
	now := s.now().UTC()
	res := s.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("id = ? AND status = ? AND last_event_seq <= ?", payment.ID, domain.PaymentInitiated, seq).
		Updates(map[string]any{"status": next, "last_event_seq": seq, "updated_at": now})
	if res.Error != nil {
		return false, apperrors.Internal("failed to update payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Info().Uint("payment_id", payment.ID).Str("status", string(next)).Int64("seq", seq).Msg("stale payment event ignored")
		return false, nil
	}

	payment.Status = next
	payment.LastEventSeq = seq
	payment.UpdatedAt = now
	metrics.RecordPaymentStatus(string(next))
	s.log.Info().Uint("payment_id", payment.ID).Str("order_id", payment.OrderID).Str("status", string(next)).Msg("payment status updated")

	key := events.PaymentFailed
	if next == domain.PaymentSuccess {
		key = events.PaymentSucceeded
	}
	if err := s.events.Publish(ctx, key, paymentView(payment)); err != nil {
		s.log.Error().Err(err).Msg("failed to publish payment event")
	}
	return true, nil
}

func paymentView(p *domain.Payment) PaymentView {
	return PaymentView{
		ID:                   p.ID,
		OrderID:              p.OrderID,
		TransactionReference: p.TransactionReference,
		Amount:               money(p.Amount),
		Currency:             p.Currency,
		Status:               p.Status,
		CustomerEmail:        p.CustomerEmail,
		CustomerName:         p.CustomerName,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func withTranRef(target, tranRef string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("tran_ref", tranRef)
	u.RawQuery = q.Encode()
	return u.String()
}
