package console

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cubeplusplus/dispatch/command"
	"github.com/cubeplusplus/dispatch/syncutil"
)

type syncBuffer struct {
	lock sync.Mutex
	buf  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.buf.String()
}

type sender struct {
	sent   []command.Command
	accept bool
}

func (s *sender) Send(cmd command.Command, _ uint8) bool {
	if !s.accept {
		cmd.Reset()
		return false
	}

	s.sent = append(s.sent, cmd)

	return true
}

func TestPrinterPrintf(t *testing.T) {
	var (
		sink      = &sender{accept: true}
		allocator = command.NewAllocator(1, DebugPrintMaxSize)
	)

	printer := NewPrinter(Options{Sender: sink, Allocator: allocator, Lock: syncutil.NewLock()})

	require.True(t, printer.Printf("%s=%d", "a", 1))
	require.Len(t, sink.sent, 1)
	require.Equal(t, command.DataCommand, sink.sent[0].Global())
	require.Equal(t, CommandSendDebug, sink.sent[0].Task())
	require.Equal(t, []byte("a=1"), sink.sent[0].Data())
	require.Equal(t, 1, allocator.Outstanding())

	sink.sent[0].Reset()
	require.Equal(t, 0, allocator.Outstanding())
}

func TestPrinterTruncates(t *testing.T) {
	sink := &sender{accept: true}

	printer := NewPrinter(Options{
		Sender:    sink,
		Allocator: command.NewAllocator(1, DebugPrintMaxSize),
		Lock:      syncutil.NewLock(),
	})

	require.True(t, printer.Printf("%s", strings.Repeat("x", 500)))
	require.Equal(t, DebugPrintMaxSize-1, sink.sent[0].Size())
}

func TestPrinterRejected(t *testing.T) {
	allocator := command.NewAllocator(1, DebugPrintMaxSize)

	printer := NewPrinter(Options{Sender: &sender{}, Allocator: allocator, Lock: syncutil.NewLock()})

	require.False(t, printer.Printf("dropped"))
	require.Equal(t, 0, allocator.Outstanding())
}

func TestPrinterAllocatorExhausted(t *testing.T) {
	sink := &sender{accept: true}

	printer := NewPrinter(Options{
		Sender:    sink,
		Allocator: command.NewAllocator(0, DebugPrintMaxSize),
		Lock:      syncutil.NewLock(),
	})

	require.False(t, printer.Printf("dropped"))
	require.Empty(t, sink.sent)
}

func TestPrinterScratchLockTimeout(t *testing.T) {
	var (
		lock = syncutil.NewLock()
		errs []error
	)

	require.True(t, lock.Lock(0))

	printer := NewPrinter(Options{
		Sender:  &sender{accept: true},
		Lock:    lock,
		OnFatal: func(err error) { errs = append(errs, err) },
	})

	require.False(t, printer.Printf("blocked"))
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrScratchLockTimeout)
}

func TestPrinterReleasesScratchLock(t *testing.T) {
	lock := syncutil.NewLock()

	printer := NewPrinter(Options{Sender: &sender{}, Allocator: command.NewAllocator(1, DebugPrintMaxSize), Lock: lock})

	printer.Printf("a")
	require.False(t, lock.Locked())
}
