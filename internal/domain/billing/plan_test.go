package billing

import (
	"errors"
	"testing"
	"time"
)

var planNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		amount   int64
		asset    string
		interval time.Duration
		merchant string
		wantErr  error
	}{
		{
			name:     "valid plan",
			id:       "P1",
			amount:   1000,
			asset:    "USDT",
			interval: 30 * 24 * time.Hour,
			merchant: "M1",
		},
		{
			name:     "zero amount",
			id:       "P1",
			amount:   0,
			asset:    "USDT",
			interval: 30 * 24 * time.Hour,
			merchant: "M1",
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "negative amount",
			id:       "P1",
			amount:   -5,
			asset:    "USDT",
			interval: 30 * 24 * time.Hour,
			merchant: "M1",
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "interval below one day",
			id:       "P1",
			amount:   1000,
			asset:    "USDT",
			interval: 23 * time.Hour,
			merchant: "M1",
			wantErr:  ErrInvalidInterval,
		},
		{
			name:     "empty merchant",
			id:       "P1",
			amount:   1000,
			asset:    "USDT",
			interval: 30 * 24 * time.Hour,
			merchant: "  ",
			wantErr:  ErrMerchantRequired,
		},
		{
			name:     "empty asset",
			id:       "P1",
			amount:   1000,
			asset:    "",
			interval: 30 * 24 * time.Hour,
			merchant: "M1",
			wantErr:  ErrAssetNotSupported,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlan(tt.id, tt.amount, tt.asset, tt.interval, tt.merchant, planNow)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewPlan() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPlan() error = %v", err)
			}
			if !p.IsActive() {
				t.Error("new plan should be active")
			}
			if p.SubscriberCount() != 0 {
				t.Errorf("SubscriberCount() = %d, want 0", p.SubscriberCount())
			}
		})
	}
}

func TestPlan_SetActive(t *testing.T) {
	p, err := NewPlan("P1", 1000, "USDT", 30*24*time.Hour, "M1", planNow)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	v := p.Version()
	p.SetActive(true, planNow) // no-op
	if p.Version() != v {
		t.Error("SetActive with same value should not bump version")
	}

	p.SetActive(false, planNow.Add(time.Hour))
	if p.IsActive() {
		t.Error("plan should be inactive")
	}
	if p.Version() != v+1 {
		t.Errorf("Version() = %d, want %d", p.Version(), v+1)
	}
}

func TestPlan_IncrementSubscribers(t *testing.T) {
	p, err := NewPlan("P1", 1000, "USDT", 30*24*time.Hour, "M1", planNow)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		p.IncrementSubscribers(planNow)
	}
	if p.SubscriberCount() != 3 {
		t.Errorf("SubscriberCount() = %d, want 3", p.SubscriberCount())
	}
}

func TestPlan_IsManagedBy(t *testing.T) {
	p, err := NewPlan("P1", 1000, "USDT", 30*24*time.Hour, "M1", planNow)
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	if !p.IsManagedBy("M1") {
		t.Error("merchant should manage own plan")
	}
	if p.IsManagedBy("M2") {
		t.Error("other merchant should not manage plan")
	}
	if p.IsManagedBy("") {
		t.Error("empty caller should not manage plan")
	}
}
