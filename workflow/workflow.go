// Package workflow holds the transition and authorization rules shared by
// the document, application and payment handlers. Handlers check these rules
// before mutating state; status-changing mutations themselves are issued as
// conditional updates (filter on the expected current status) so that two
// concurrent actors cannot both win.
package workflow

import "errors"

var (
	ErrForbidden            = errors.New("not authorized for this entity")
	ErrAlreadyProcessed     = errors.New("document has already been processed")
	ErrNotVerified          = errors.New("document must be verified before processing payment")
	ErrNotApproved          = errors.New("cannot process payment for unapproved application")
	ErrAlreadyPaid          = errors.New("scholarship payment has already been completed")
	ErrJurisdictionMismatch = errors.New("not authorized to review this application")
	ErrNotDeletable         = errors.New("document cannot be deleted in its current status")
)

// Document deletion policies. The observed source differs between two route
// variants, so the choice is a deployment-time configuration.
const (
	DeletePendingOnly = "pending_only" // default: only still-pending documents
	DeleteAny         = "any"          // any document owned by the requester
)

// ValidDeletePolicy reports whether p names a known deletion policy.
func ValidDeletePolicy(p string) bool {
	return p == DeletePendingOnly || p == DeleteAny
}

// CanVerifyDocument gates the verify/reject transition: only documents still
// pending may be processed. The terminal states are final for that
// submission — resubmission means a new document record.
func CanVerifyDocument(status string) error {
	if status != "pending" {
		return ErrAlreadyProcessed
	}
	return nil
}

// CanProcessDocumentPayment gates the payment sub-workflow on a document.
func CanProcessDocumentPayment(status string) error {
	if status != "verified" {
		return ErrNotVerified
	}
	return nil
}

// CanDeleteDocument gates deletion by the owning student under the
// configured policy.
func CanDeleteDocument(policy, requesterID, ownerID, status string) error {
	if requesterID != ownerID {
		return ErrForbidden
	}
	if policy == DeletePendingOnly && status != "pending" {
		return ErrNotDeletable
	}
	return nil
}

// CanReviewApplication gates the review transition: the bureau's
// jurisdiction must equal the student's declared state.
func CanReviewApplication(bureauState, studentState string) error {
	if bureauState == "" || bureauState != studentState {
		return ErrJurisdictionMismatch
	}
	return nil
}

// CanDisburse gates payment creation: the application must be approved and
// the student's scholarship must not already be fully paid out.
func CanDisburse(applicationStatus, paymentStatus string) error {
	if applicationStatus != "approved" {
		return ErrNotApproved
	}
	if paymentStatus == "completed" {
		return ErrAlreadyPaid
	}
	return nil
}
