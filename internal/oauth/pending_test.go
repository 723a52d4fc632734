package oauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingAuth_SettlesOnce(t *testing.T) {
	p := newPendingAuth()
	cred := testCredential()

	p.settle(cred, nil)
	p.settle(nil, errors.New("ignored"))

	got, err := p.wait(context.Background())
	require.NoError(t, err)
	assert.True(t, cred.Equal(got))

	// Waiters receive copies.
	got.AccessToken = "changed"
	again, _ := p.wait(context.Background())
	assert.Equal(t, cred.AccessToken, again.AccessToken)
}

func TestPendingAuth_Error(t *testing.T) {
	p := newPendingAuth()
	p.settle(nil, ErrMissingCode)

	got, err := p.wait(context.Background())
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrMissingCode)
}
