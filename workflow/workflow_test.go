package workflow

import "testing"

func TestCanVerifyDocument(t *testing.T) {
	tests := []struct {
		status  string
		wantErr error
	}{
		{"pending", nil},
		{"verified", ErrAlreadyProcessed},
		{"rejected", ErrAlreadyProcessed},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if err := CanVerifyDocument(tt.status); err != tt.wantErr {
				t.Errorf("CanVerifyDocument(%q) = %v, want %v", tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestCanProcessDocumentPayment(t *testing.T) {
	if err := CanProcessDocumentPayment("verified"); err != nil {
		t.Errorf("verified document should be payable, got %v", err)
	}
	for _, status := range []string{"pending", "rejected"} {
		if err := CanProcessDocumentPayment(status); err != ErrNotVerified {
			t.Errorf("CanProcessDocumentPayment(%q) = %v, want ErrNotVerified", status, err)
		}
	}
}

func TestCanDeleteDocument(t *testing.T) {
	tests := []struct {
		name      string
		policy    string
		requester string
		owner     string
		status    string
		wantErr   error
	}{
		{"owner pending under pending_only", DeletePendingOnly, "u1", "u1", "pending", nil},
		{"owner verified under pending_only", DeletePendingOnly, "u1", "u1", "verified", ErrNotDeletable},
		{"owner rejected under pending_only", DeletePendingOnly, "u1", "u1", "rejected", ErrNotDeletable},
		{"owner verified under any", DeleteAny, "u1", "u1", "verified", nil},
		{"non-owner under any", DeleteAny, "u2", "u1", "pending", ErrForbidden},
		{"non-owner under pending_only", DeletePendingOnly, "u2", "u1", "pending", ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanDeleteDocument(tt.policy, tt.requester, tt.owner, tt.status)
			if err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanReviewApplication(t *testing.T) {
	if err := CanReviewApplication("Jammu and Kashmir", "Jammu and Kashmir"); err != nil {
		t.Errorf("matching jurisdiction should pass, got %v", err)
	}
	if err := CanReviewApplication("Jammu and Kashmir", "Ladakh"); err != ErrJurisdictionMismatch {
		t.Errorf("mismatched jurisdiction = %v, want ErrJurisdictionMismatch", err)
	}
	// a bureau with no jurisdiction can never review
	if err := CanReviewApplication("", ""); err != ErrJurisdictionMismatch {
		t.Errorf("empty jurisdiction = %v, want ErrJurisdictionMismatch", err)
	}
}

func TestCanDisburse(t *testing.T) {
	tests := []struct {
		name          string
		application   string
		paymentStatus string
		wantErr       error
	}{
		{"approved and unpaid", "approved", "", nil},
		{"approved after failed payment", "approved", "failed", nil},
		{"approved already paid", "approved", "completed", ErrAlreadyPaid},
		{"pending application", "pending", "", ErrNotApproved},
		{"rejected application", "rejected", "", ErrNotApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CanDisburse(tt.application, tt.paymentStatus); err != tt.wantErr {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidDeletePolicy(t *testing.T) {
	if !ValidDeletePolicy(DeletePendingOnly) || !ValidDeletePolicy(DeleteAny) {
		t.Error("known policies should validate")
	}
	if ValidDeletePolicy("everything") {
		t.Error("unknown policy should not validate")
	}
}
