// Package chunkio wraps readers and writers so that single oversized calls
// are split into bounded chunks. Some platforms fail or misbehave on I/O
// calls above 2 GiB; routing whole-buffer pipeline output through these
// wrappers keeps each underlying call below the threshold.
package chunkio

import "io"

// DefaultChunkSize bounds the size of a single underlying Read or Write.
const DefaultChunkSize = 1 << 30

// Writer splits oversized Write calls into chunks.
type Writer struct {
	w     io.Writer
	chunk int
}

// Compile-time check that Writer implements io.Writer.
var _ io.Writer = (*Writer)(nil)

// NewWriter wraps w with the default chunk size.
func NewWriter(w io.Writer) *Writer {
	return NewWriterSize(w, DefaultChunkSize)
}

// NewWriterSize wraps w, bounding each underlying write to chunk bytes.
func NewWriterSize(w io.Writer, chunk int) *Writer {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Writer{w: w, chunk: chunk}
}

// Write writes p, issuing at most chunk bytes per underlying call.
func (w *Writer) Write(p []byte) (int, error) {
	var written int
	for len(p) > 0 {
		n := len(p)
		if n > w.chunk {
			n = w.chunk
		}
		m, err := w.w.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[m:]
	}
	return written, nil
}

// Reader bounds the size of a single underlying Read call.
type Reader struct {
	r     io.Reader
	chunk int
}

// Compile-time check that Reader implements io.Reader.
var _ io.Reader = (*Reader)(nil)

// NewReader wraps r with the default chunk size.
func NewReader(r io.Reader) *Reader {
	return NewReaderSize(r, DefaultChunkSize)
}

// NewReaderSize wraps r, bounding each underlying read to chunk bytes.
func NewReaderSize(r io.Reader, chunk int) *Reader {
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Reader{r: r, chunk: chunk}
}

// Read reads into p, requesting at most chunk bytes from the underlying
// reader per call. Callers must tolerate short reads, as with any io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) > r.chunk {
		p = p[:r.chunk]
	}
	return r.r.Read(p)
}
