// Package session issues and validates the signed session tokens of idaas.
//
// Tokens are compact JWS (JWT, HS256) carrying the identity's id as "sub" plus
// "email", "name" and "roles". A token is valid while its signature verifies
// under the service key, its algorithm is HS256, its issuer matches and now is
// before "exp". There is no revocation: a token stays valid until it expires or
// the signing key changes.
//
// Validation never returns errors to callers. Validate reports a bool and
// PrincipalFrom reports (Principal, ok); the reason for a rejection stays internal.
package session
