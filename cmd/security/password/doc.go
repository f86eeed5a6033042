// Package password provides password hashing and verification for idaas.
//
// Two adaptive algorithms are supported:
// - bcrypt (default), encoded in the standard "$2a$/$2b$/$2y$" modular crypt format
// - Argon2id, encoded in a PHC-like string "$argon2id$v=19$m=..,t=..,p=..$salt$key"
//
// Hash uses the configured algorithm. Verify dispatches on the encoded prefix,
// so stored hashes of either algorithm keep verifying after the default changes.
//
// Security notes:
// - Hash strings are treated as untrusted input during Verify and are validated accordingly.
// - Verification refuses hashes with parameters that exceed reasonable bounds.
package password
