package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idaas/cmd/security/token"
)

func TestValidateSecurityConfig(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		require bool
		wantErr string
	}{
		{name: "no key, not required", key: "", require: false},
		{name: "no key, required", key: "", require: true, wantErr: "missing"},
		{name: "short key", key: "short", require: false, wantErr: "too short"},
		{name: "good key, required", key: strings.Repeat("k", token.MinKeyBytes), require: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(token.SigningKeyEnvKey, tc.key)

			err := ValidateSecurityConfig(Config{RequireSigningKey: tc.require})
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
