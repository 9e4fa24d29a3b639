package main

import (
	"testing"

	"github.com/pires/go-proxyproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewListener(t *testing.T) {
	plain, err := newListener("127.0.0.1:0", false)
	require.NoError(t, err)
	defer plain.Close()
	_, isProxy := plain.(*proxyproto.Listener)
	assert.False(t, isProxy)

	proxied, err := newListener("127.0.0.1:0", true)
	require.NoError(t, err)
	defer proxied.Close()
	_, isProxy = proxied.(*proxyproto.Listener)
	assert.True(t, isProxy)
}
