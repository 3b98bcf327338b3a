package vrf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceHookObservesVerification(t *testing.T) {
	assert := assert.New(t)

	var events []string
	SetTraceHook(func(event, detail string) {
		events = append(events, event)
	})
	defer SetTraceHook(nil)

	sk := testSecretKey(t, 5)
	gamma, proof, err := IETFProve(sk, []byte("test"), nil)
	require.NoError(t, err)
	ok, err := IETFVerify(sk.Public(), []byte("test"), gamma, proof, nil)
	require.NoError(t, err)
	assert.True(ok)
	assert.Contains(events, "ietf_verify")

	// the hook is diagnostics only; disabling it changes nothing
	SetTraceHook(nil)
	ok, err = IETFVerify(sk.Public(), []byte("test"), gamma, proof, nil)
	require.NoError(t, err)
	assert.True(ok)
}
