package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document status values. pending is initial; verified and rejected are
// terminal for that submission — resubmission means a new Document record.
const (
	DocumentPending  = "pending"
	DocumentVerified = "verified"
	DocumentRejected = "rejected"
)

// Document payment status values, tracked independently of the
// verification status.
const (
	PaymentProcessing = "processing"
	PaymentPaid       = "paid"
)

// Accepted document types.
var DocumentTypes = []string{"fee_receipt", "attendance_certificate", "marksheet", "other"}

// ValidDocumentType reports whether t is an accepted document type.
func ValidDocumentType(t string) bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

// VerificationDetails records who verified or rejected a document.
type VerificationDetails struct {
	VerifiedBy *primitive.ObjectID `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerifiedAt *time.Time          `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	Remarks    string              `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

// PaymentDetails records which finance bureau processed payment against a
// verified document.
type PaymentDetails struct {
	ProcessedBy *primitive.ObjectID `bson:"processed_by,omitempty" json:"processed_by,omitempty"`
	ProcessedAt *time.Time          `bson:"processed_at,omitempty" json:"processed_at,omitempty"`
	Remarks     string              `bson:"remarks,omitempty" json:"remarks,omitempty"`
}

type Document struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Student   primitive.ObjectID `bson:"student" json:"student"`
	Type      string             `bson:"type" json:"type"` // fee_receipt, attendance_certificate, marksheet, other
	FileURL   string             `bson:"file_url" json:"file_url"`
	FileName  string             `bson:"file_name" json:"file_name"`
	StorageID string             `bson:"storage_id,omitempty" json:"storage_id,omitempty"` // blob backend id used for deletion
	Status    string             `bson:"status" json:"status"`                             // pending, verified, rejected
	Remarks   string             `bson:"remarks,omitempty" json:"remarks,omitempty"`

	VerificationDetails VerificationDetails `bson:"verification_details,omitempty" json:"verification_details,omitempty"`
	PaymentDetails      PaymentDetails      `bson:"payment_details,omitempty" json:"payment_details,omitempty"`
	PaymentStatus       string              `bson:"payment_status,omitempty" json:"payment_status,omitempty"` // processing, paid

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
