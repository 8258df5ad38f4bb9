package payment

import (
	"errors"
	"testing"
	"time"
)

var payNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewOneTimePayment(t *testing.T) {
	tests := []struct {
		name     string
		orderID  string
		payer    string
		merchant string
		amount   int64
		asset    string
		wantErr  bool
	}{
		{"valid", "O1", "U1", "M1", 500, "USDT", false},
		{"empty order", " ", "U1", "M1", 500, "USDT", true},
		{"empty payer", "O1", "", "M1", 500, "USDT", true},
		{"empty merchant", "O1", "U1", "", 500, "USDT", true},
		{"zero amount", "O1", "U1", "M1", 0, "USDT", true},
		{"negative amount", "O1", "U1", "M1", -1, "USDT", true},
		{"empty asset", "O1", "U1", "M1", 500, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOneTimePayment(tt.orderID, tt.payer, tt.merchant, tt.amount, tt.asset, payNow)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewOneTimePayment() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && p.IsPaid() {
				t.Error("new payment should not be paid")
			}
		})
	}
}

func TestOneTimePayment_MarkAsPaid(t *testing.T) {
	p, err := NewOneTimePayment("O1", "U1", "M1", 500, "USDT", payNow)
	if err != nil {
		t.Fatalf("NewOneTimePayment() error = %v", err)
	}

	paidAt := payNow.Add(time.Second)
	if err := p.MarkAsPaid(paidAt); err != nil {
		t.Fatalf("MarkAsPaid() error = %v", err)
	}
	if !p.IsPaid() {
		t.Error("payment should be paid")
	}
	if p.PaidAt() == nil || !p.PaidAt().Equal(paidAt) {
		t.Errorf("PaidAt() = %v, want %v", p.PaidAt(), paidAt)
	}

	// An order identifier admits one payment only
	if err := p.MarkAsPaid(paidAt.Add(time.Second)); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("second MarkAsPaid() error = %v, want ErrOrderAlreadyPaid", err)
	}
}
