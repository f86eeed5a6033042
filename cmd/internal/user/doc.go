// Package user implements the identity use cases: registration, authentication,
// profile updates, deletion and listing.
//
// Services depend only on identity.Store and identity.CredentialHasher. They take
// primitive inputs and return identity values with their credential hash intact;
// stripping the hash before anything leaves the process is the caller's job.
package user
