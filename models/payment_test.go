package models

import (
	"testing"
	"time"
)

func period(start, end time.Time) PaymentPeriod {
	return PaymentPeriod{StartDate: start, EndDate: end}
}

func TestPaymentValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		payment Payment
		wantErr error
	}{
		{
			"valid",
			Payment{Amount: 25000, PaymentPeriod: period(now, now.AddDate(0, 6, 0))},
			nil,
		},
		{
			"zero amount",
			Payment{Amount: 0, PaymentPeriod: period(now, now)},
			nil,
		},
		{
			"negative amount",
			Payment{Amount: -1, PaymentPeriod: period(now, now.AddDate(0, 1, 0))},
			ErrNegativeAmount,
		},
		{
			"inverted period",
			Payment{Amount: 1000, PaymentPeriod: period(now, now.AddDate(0, -1, 0))},
			ErrInvertedPeriod,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.payment.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentDurationInMonths(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same month", start, 0},
		{"half year", start.AddDate(0, 6, 0), 6},
		{"across year boundary", time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Payment{PaymentPeriod: period(start, tt.end)}
			if got := p.DurationInMonths(); got != tt.want {
				t.Errorf("DurationInMonths() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPaymentIsOverdue(t *testing.T) {
	past := period(time.Now().AddDate(0, -7, 0), time.Now().AddDate(0, -1, 0))
	future := period(time.Now(), time.Now().AddDate(0, 6, 0))

	tests := []struct {
		name    string
		payment Payment
		want    bool
	}{
		{"pending past period", Payment{Status: PaymentStatusPending, PaymentPeriod: past}, true},
		{"pending current period", Payment{Status: PaymentStatusPending, PaymentPeriod: future}, false},
		{"completed past period", Payment{Status: PaymentStatusCompleted, PaymentPeriod: past}, false},
		{"failed past period", Payment{Status: PaymentStatusFailed, PaymentPeriod: past}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.payment.IsOverdue(); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentEnums(t *testing.T) {
	if !ValidPaymentStatus("completed") || ValidPaymentStatus("done") {
		t.Error("ValidPaymentStatus misclassifies")
	}
	if !ValidPaymentType("tuition_fee") || ValidPaymentType("bonus") {
		t.Error("ValidPaymentType misclassifies")
	}
	if !ValidPaymentMethod("bank_transfer") || ValidPaymentMethod("cash") {
		t.Error("ValidPaymentMethod misclassifies")
	}
}
