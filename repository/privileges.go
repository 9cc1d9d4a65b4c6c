package repository

import (
	"github.com/scidepot/depot/config"
	"github.com/scidepot/depot/sparql"
)

// PrivilegeResolver looks up configuration-sourced privilege grants for an
// account email. *config.Config satisfies it; tests substitute fixed sets.
// Privileges are merged onto account rows at read time and never written
// through the mutation path.
type PrivilegeResolver interface {
	PrivilegesFor(email string) config.Privileges
}

// NoPrivileges grants nothing. It is the default resolver.
type NoPrivileges struct{}

// PrivilegesFor returns the zero grant set.
func (NoPrivileges) PrivilegesFor(string) config.Privileges {
	return config.Privileges{}
}

// mergePrivileges returns a copy of the row with the account's grants
// attached. The input row may be shared with the result cache and is never
// written to.
func mergePrivileges(row sparql.Row, resolver PrivilegeResolver) sparql.Row {
	email := ""
	if row.Has("email") {
		email = row.Text("email")
	}
	grants := resolver.PrivilegesFor(email)
	merged := row.Clone()
	merged["may_administer"] = sparql.Bool(grants.MayAdminister)
	merged["may_impersonate"] = sparql.Bool(grants.MayImpersonate)
	merged["may_review"] = sparql.Bool(grants.MayReview)
	merged["may_review_quotas"] = sparql.Bool(grants.MayReviewQuotas)
	return merged
}

// MayAdminister reports whether the account row carries the administration
// grant.
func MayAdminister(row sparql.Row) bool {
	return row.Bool("may_administer")
}

// MayImpersonate reports whether the account row carries the impersonation
// grant.
func MayImpersonate(row sparql.Row) bool {
	return row.Bool("may_impersonate")
}

// IsLoggedIn reports whether a token lookup produced an account row.
func IsLoggedIn(row sparql.Row) bool {
	return len(row) > 0
}

// IsDepositor reports whether the account may deposit: any active,
// logged-in account is a depositor.
func IsDepositor(row sparql.Row) bool {
	return IsLoggedIn(row) && row.Bool("active")
}
