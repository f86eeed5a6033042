// Package identity implements the identity core of idaas.
//
// It contains the Identity value and its construction-time invariants, the
// error kinds shared by every service, the Store boundary with its in-memory and
// Postgres implementations, and the credential hasher used by registration and
// authentication.
//
// Services never depend on a concrete store; they receive a Store.
package identity
