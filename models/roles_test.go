package models

import "testing"

func TestRoleMappingRoundTrip(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleSAG, RoleFinance} {
		external := ExternalRole(role)
		if external == "" {
			t.Errorf("ExternalRole(%q) is empty", role)
			continue
		}
		if got := InternalRole(external); got != role {
			t.Errorf("InternalRole(ExternalRole(%q)) = %q, want %q", role, got, role)
		}
	}
}

func TestRoleMappingUnknown(t *testing.T) {
	if ExternalRole("admin") != "" {
		t.Error("unknown internal role should map to empty")
	}
	if InternalRole("admin_bureau") != "" {
		t.Error("unknown external role should map to empty")
	}
	// internal "finance" and external "finance_bureau" are distinct namespaces
	if InternalRole(RoleFinance) != "" {
		t.Error("internal identifier must not resolve as an external name")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleStudent, RoleSAG, RoleFinance} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("sag_bureau") {
		t.Error("external names are not stored role identifiers")
	}
}

func TestAccountState(t *testing.T) {
	a := &Account{Role: RoleSAG}
	if a.State() != "" {
		t.Error("non-student account has no declared state")
	}

	a = &Account{
		Role: RoleStudent,
		Student: &StudentProfile{
			PersonalDetails: PersonalDetails{Address: Address{State: "Jammu and Kashmir"}},
		},
	}
	if a.State() != "Jammu and Kashmir" {
		t.Errorf("State() = %q, want the declared address state", a.State())
	}
}
