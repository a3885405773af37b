package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment status values
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
)

var PaymentStatuses = []string{
	PaymentStatusPending,
	PaymentStatusProcessing,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusCancelled,
}

var PaymentTypes = []string{"tuition_fee", "maintenance_allowance", "other"}

var PaymentMethods = []string{"bank_transfer", "cheque", "demand_draft"}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

func ValidPaymentStatus(s string) bool { return contains(PaymentStatuses, s) }
func ValidPaymentType(t string) bool   { return contains(PaymentTypes, t) }
func ValidPaymentMethod(m string) bool { return contains(PaymentMethods, m) }

type TransactionDetails struct {
	ReferenceNumber string     `bson:"reference_number,omitempty" json:"reference_number,omitempty"`
	BankName        string     `bson:"bank_name,omitempty" json:"bank_name,omitempty"`
	AccountNumber   string     `bson:"account_number,omitempty" json:"account_number,omitempty"`
	IFSCCode        string     `bson:"ifsc_code,omitempty" json:"ifsc_code,omitempty"`
	TransactionDate *time.Time `bson:"transaction_date,omitempty" json:"transaction_date,omitempty"`
	Remarks         string     `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

type PaymentDocument struct {
	Type       string    `bson:"type" json:"type"`
	URL        string    `bson:"url" json:"url"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

type PaymentPeriod struct {
	StartDate time.Time `bson:"start_date" json:"start_date"`
	EndDate   time.Time `bson:"end_date" json:"end_date"`
}

// Payment is a disbursement transaction tied to a student and the finance
// bureau that processed it.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student       primitive.ObjectID `bson:"student" json:"student"`
	Finance       primitive.ObjectID `bson:"finance" json:"finance"`
	Amount        float64            `bson:"amount" json:"amount"`
	PaymentType   string             `bson:"payment_type" json:"payment_type"`     // tuition_fee, maintenance_allowance, other
	PaymentMethod string             `bson:"payment_method" json:"payment_method"` // bank_transfer, cheque, demand_draft
	Status        string             `bson:"status" json:"status"`                 // pending, processing, completed, failed, cancelled

	TransactionDetails TransactionDetails  `bson:"transaction_details,omitempty" json:"transaction_details,omitempty"`
	Verification       VerificationDetails `bson:"verification,omitempty" json:"verification,omitempty"`
	Documents          []PaymentDocument   `bson:"documents,omitempty" json:"documents,omitempty"`
	PaymentPeriod      PaymentPeriod       `bson:"payment_period" json:"payment_period"`
	IsActive           bool                `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

var (
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrInvertedPeriod = errors.New("start date cannot be after end date")
)

// Validate enforces the save-time invariants: a non-negative amount and an
// ordered payment period.
func (p *Payment) Validate() error {
	if p.Amount < 0 {
		return ErrNegativeAmount
	}
	if p.PaymentPeriod.StartDate.After(p.PaymentPeriod.EndDate) {
		return ErrInvertedPeriod
	}
	return nil
}

// DurationInMonths is the length of the payment period in whole months.
func (p *Payment) DurationInMonths() int {
	start, end := p.PaymentPeriod.StartDate, p.PaymentPeriod.EndDate
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// IsOverdue reports whether a still-pending payment's period has elapsed.
func (p *Payment) IsOverdue() bool {
	return p.Status == PaymentStatusPending && time.Now().After(p.PaymentPeriod.EndDate)
}
