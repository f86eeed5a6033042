// Package token owns signing key material for session tokens.
//
// It is the single source of truth for how keys are generated, loaded and
// referred to in logs. Keys themselves are never logged; use Fingerprint.
//
// Environment:
// - IDAAS_TOKEN_SIGNING_KEY: when set, the HMAC signing key (raw bytes of the trimmed value).
// Policy:
//   - If the deployment requires a configured key, callers MUST enforce a minimum
//     key size (>= MinKeyBytes) and MUST NOT fall back to a generated key.
package token
