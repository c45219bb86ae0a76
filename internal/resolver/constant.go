package resolver

// ResolverQuery is the retrieval text used to find an identity lookup endpoint.
const ResolverQuery = "look up user identity by email address"

// FactEmail names the known visitor attribute passed to the resolver endpoint.
const FactEmail = "email"

var identityParams = map[string]bool{
	"userId": true, "user_id": true,
	"customerId": true, "customer_id": true,
	"contactId": true, "contact_id": true,
	"accountId": true, "account_id": true,
	"memberId": true, "member_id": true,
}

// IsIdentityParam reports whether name denotes a user identity.
func IsIdentityParam(name string) bool {
	return identityParams[name]
}
