package handlers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"dinner-planner/models"
)

func TestPaymentInstructions_VenmoHandle(t *testing.T) {
	event := &models.Event{
		IsPaid:   true,
		Price:    decimal.NewFromFloat(12.5),
		HostName: "Alex Chen",
	}

	text := paymentInstructions(event, "@alex-chen")

	assert.Contains(t, text, "$12.50")
	assert.Contains(t, text, "via Venmo to @alex-chen")
}

func TestPaymentInstructions_HostNameFallback(t *testing.T) {
	event := &models.Event{
		IsPaid:   true,
		Price:    decimal.NewFromInt(20),
		HostName: "Alex Chen",
	}

	text := paymentInstructions(event, event.HostName)

	assert.Contains(t, text, "$20.00")
	assert.Contains(t, text, "via Venmo to Alex Chen")
}
