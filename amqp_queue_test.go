package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableAMQP returns an address nothing listens on.
func unreachableAMQP(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "amqp://guest:guest@" + addr + "/"
}

func TestAMQPClientCloseWithoutBroker(t *testing.T) {
	client := NewAMQPClient(unreachableAMQP(t), []string{"sms_segments"})

	require.NoError(t, client.Close())
	select {
	case <-client.stopped:
	case <-time.After(2 * reconnectDelay):
		t.Fatal("reconnect loop still running after Close")
	}

	assert.Error(t, client.Close())
}

func TestAMQPClientPublishHonoursContext(t *testing.T) {
	client := NewAMQPClient(unreachableAMQP(t), []string{"sms_segments"})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := client.Publish(ctx, "sms_segments", []byte(`{}`))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAMQPClientConcurrentPublishAndClose(t *testing.T) {
	client := NewAMQPClient(unreachableAMQP(t), []string{"sms_segments"})

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() { errs <- client.Publish(ctx, "sms_segments", []byte(`{}`)) }()
	}

	require.NoError(t, client.Close())
	cancel()
	for i := 0; i < 4; i++ {
		assert.ErrorIs(t, <-errs, context.Canceled)
	}
}
