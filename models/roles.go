package models

// Internal role identifiers as stored on the account record.
const (
	RoleStudent = "student"
	RoleSAG     = "sag"
	RoleFinance = "finance"
)

// Externally visible role names carried in tokens and responses.
const (
	RoleStudentExternal = "student"
	RoleSAGExternal     = "sag_bureau"
	RoleFinanceExternal = "finance_bureau"
)

// Single mapping table between stored role identifiers and the role names
// exposed in tokens. Token issue and token verify both go through this table
// so the two directions cannot drift.
var roleToExternal = map[string]string{
	RoleStudent: RoleStudentExternal,
	RoleSAG:     RoleSAGExternal,
	RoleFinance: RoleFinanceExternal,
}

var externalToRole = func() map[string]string {
	m := make(map[string]string, len(roleToExternal))
	for k, v := range roleToExternal {
		m[v] = k
	}
	return m
}()

// ExternalRole maps a stored role to its token-facing name.
// Returns "" for unknown roles.
func ExternalRole(role string) string {
	return roleToExternal[role]
}

// InternalRole maps a token-facing role name back to the stored identifier.
// Returns "" for unknown roles.
func InternalRole(external string) string {
	return externalToRole[external]
}

// ValidRole reports whether role is one of the stored role identifiers.
func ValidRole(role string) bool {
	_, ok := roleToExternal[role]
	return ok
}
