package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatScratchStaysInBuffer(t *testing.T) {
	var scratch [DebugPrintMaxSize]byte

	msg := formatScratch(scratch[:], DebugPrintMaxSize-1, "%s|%d", strings.Repeat("x", 500), 42)
	require.Len(t, msg, DebugPrintMaxSize-1)
	require.Equal(t, DebugPrintMaxSize-1, cap(msg))
	require.Same(t, &scratch[0], &msg[0])
	require.Equal(t, strings.Repeat("x", DebugPrintMaxSize-1), string(msg))
}

func TestFormatScratchShortMessage(t *testing.T) {
	var scratch [AssertBufferMaxSize]byte

	msg := formatScratch(scratch[:], AssertBufferMaxSize-1, "queue %s is %d deep", "console", 10)
	require.Equal(t, "queue console is 10 deep", string(msg))
	require.Same(t, &scratch[0], &msg[0])
}

func TestFormatScratchLimitBeyondBuffer(t *testing.T) {
	var scratch [4]byte

	msg := formatScratch(scratch[:], 16, "abcdefgh")
	require.Equal(t, "abcd", string(msg))
}
