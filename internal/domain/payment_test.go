package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentTransitions(t *testing.T) {
	assert.True(t, PaymentInitiated.CanTransition(PaymentSuccess))
	assert.True(t, PaymentInitiated.CanTransition(PaymentFailed))
	assert.False(t, PaymentInitiated.CanTransition(PaymentInitiated))

	for _, terminal := range []PaymentStatus{PaymentSuccess, PaymentFailed} {
		assert.True(t, terminal.IsTerminal())
		assert.False(t, terminal.CanTransition(PaymentSuccess))
		assert.False(t, terminal.CanTransition(PaymentFailed))
		assert.False(t, terminal.CanTransition(PaymentInitiated))
	}
}

func TestEnumValidation(t *testing.T) {
	assert.True(t, ContactDeepClean.Valid())
	assert.False(t, ContactServiceType("gardening").Valid())
	assert.True(t, ServicePestControl.Valid())
	assert.False(t, ServiceType("laundry").Valid())
	assert.True(t, BookingInProgress.Valid())
	assert.False(t, BookingStatus("lost").Valid())
}
