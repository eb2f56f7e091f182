package syncutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewWakeChannel(t *testing.T) {
	wake := NewWakeChannel(3, 0)
	require.Equal(t, 3, wake.Capacity())
	require.Equal(t, DefaultWakeSendTimeout, wake.sendTimeout)
	require.True(t, wake.IsEmpty())
	require.False(t, wake.IsFull())
}

func TestWakeChannelSendReceive(t *testing.T) {
	wake := NewWakeChannel(2, time.Millisecond)

	require.True(t, wake.Send(WakeToken))
	require.True(t, wake.SendFromISR(WakeToken))
	require.True(t, wake.IsFull())
	require.Equal(t, 2, wake.Pending())

	require.False(t, wake.Send(WakeToken))
	require.False(t, wake.SendFromISR(WakeToken))

	token, ok := wake.Receive(0)
	require.True(t, ok)
	require.Equal(t, WakeToken, token)
	require.Equal(t, 1, wake.Pending())

	_, ok = wake.ReceiveWait()
	require.True(t, ok)
	require.True(t, wake.IsEmpty())
}

func TestWakeChannelReceiveTimeout(t *testing.T) {
	wake := NewWakeChannel(1, 0)

	_, ok := wake.Receive(0)
	require.False(t, ok)

	start := time.Now()

	_, ok = wake.Receive(20 * time.Millisecond)
	require.False(t, ok)
	require.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestWakeChannelReceiveWakesOnSend(t *testing.T) {
	wake := NewWakeChannel(1, 0)

	go func() {
		time.Sleep(10 * time.Millisecond)
		wake.Send(WakeToken)
	}()

	_, ok := wake.Receive(time.Second)
	require.True(t, ok)
}

func TestWakeChannelSendWaitsForSpace(t *testing.T) {
	wake := NewWakeChannel(1, time.Second)
	require.True(t, wake.Send(WakeToken))

	go func() {
		time.Sleep(10 * time.Millisecond)
		wake.Receive(0)
	}()

	require.True(t, wake.Send(WakeToken))
}

func TestWakeChannelReceiveContext(t *testing.T) {
	wake := NewWakeChannel(1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := wake.ReceiveContext(ctx)
	require.False(t, ok)

	wake.Send(WakeToken)

	_, ok = wake.ReceiveContext(context.Background())
	require.True(t, ok)
}
