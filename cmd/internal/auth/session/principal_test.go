package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	p := Principal{ID: "id-1", Email: "a@x.com", Name: "Ann", Roles: []string{"USER"}}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), p))
	assert.True(t, ok)
	assert.Equal(t, p, got)
}
