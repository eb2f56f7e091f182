package syncutil

import (
	"context"
	"time"
)

// Token is the opaque single byte placed in a 'WakeChannel', its value carries no meaning.
type Token uint8

// WakeToken is the token value used by the priority queue.
const WakeToken Token = 1

// DefaultWakeSendTimeout is the maximum time 'WakeChannel.Send' will wait for space.
const DefaultWakeSendTimeout = 15 * time.Millisecond

// WakeChannel is a bounded FIFO of sentinel tokens, one per logically enqueued item. Its sole purpose is to let a
// consumer sleep until "some item exists" rather than polling; it never carries payload data.
type WakeChannel struct {
	tokens      chan Token
	sendTimeout time.Duration
}

// NewWakeChannel creates a wake channel which can hold capacity tokens. A zero send timeout results in
// 'DefaultWakeSendTimeout' being used.
func NewWakeChannel(capacity int, sendTimeout time.Duration) *WakeChannel {
	if sendTimeout == 0 {
		sendTimeout = DefaultWakeSendTimeout
	}

	return &WakeChannel{tokens: make(chan Token, capacity), sendTimeout: sendTimeout}
}

// Send adds a token, waiting at most the configured send timeout for space, returns false if the channel stayed full.
func (w *WakeChannel) Send(token Token) bool {
	if w.SendFromISR(token) {
		return true
	}

	expired, stop := newTimer(w.sendTimeout)
	defer stop()

	select {
	case w.tokens <- token:
		return true
	case <-expired:
		return false
	}
}

// SendFromISR adds a token without waiting, returns false if the channel is full.
func (w *WakeChannel) SendFromISR(token Token) bool {
	select {
	case w.tokens <- token:
		return true
	default:
		return false
	}
}

// Receive removes a token, waiting at most timeout for one to arrive. A zero timeout polls once, 'WaitForever' blocks
// until a token arrives.
func (w *WakeChannel) Receive(timeout time.Duration) (Token, bool) {
	select {
	case token := <-w.tokens:
		return token, true
	default:
	}

	if timeout == 0 {
		return 0, false
	}

	expired, stop := newTimer(timeout)
	defer stop()

	select {
	case token := <-w.tokens:
		return token, true
	case <-expired:
		return 0, false
	}
}

// ReceiveWait blocks until a token is available.
func (w *WakeChannel) ReceiveWait() (Token, bool) {
	return w.Receive(WaitForever)
}

// ReceiveContext blocks until a token is available or the context is done.
func (w *WakeChannel) ReceiveContext(ctx context.Context) (Token, bool) {
	select {
	case token := <-w.tokens:
		return token, true
	case <-ctx.Done():
		return 0, false
	}
}

// Pending returns the number of tokens currently in the channel.
func (w *WakeChannel) Pending() int {
	return len(w.tokens)
}

// Capacity returns the maximum number of tokens the channel can hold.
func (w *WakeChannel) Capacity() int {
	return cap(w.tokens)
}

// IsEmpty returns whether there are no tokens in the channel.
func (w *WakeChannel) IsEmpty() bool {
	return w.Pending() == 0
}

// IsFull returns whether no more tokens can be sent without waiting.
func (w *WakeChannel) IsFull() bool {
	return w.Pending() == w.Capacity()
}
