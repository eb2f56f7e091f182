package console

import "fmt"

// scratchWriter collects formatted output in a fixed size buffer, anything written past its capacity is dropped.
type scratchWriter struct {
	buf []byte
}

func (w *scratchWriter) Write(p []byte) (int, error) {
	n := min(len(p), cap(w.buf)-len(w.buf))
	w.buf = append(w.buf, p[:n]...)

	// Claim the whole write so formatting carries on, the remainder is discarded
	return len(p), nil
}

// formatScratch formats into the start of scratch, keeping at most limit bytes. The returned slice aliases scratch.
func formatScratch(scratch []byte, limit int, format string, args ...any) []byte {
	w := scratchWriter{buf: scratch[:0:min(limit, len(scratch))]}

	_, _ = fmt.Fprintf(&w, format, args...)

	return w.buf
}
