package transfer

import (
	"bytes"
	"fmt"
	"os"
)

// PartialSuffix is appended to a file destination while its download is in
// flight. The file is renamed into place only once the stream completes,
// so a cancelled or failed download never leaves a half-written file at
// the destination path.
const PartialSuffix = ".partial"

// Pre-sizing a buffer from the listing hint is an optimisation only; a
// hint larger than this is ignored rather than trusted with that much
// memory up front.
const maxPreallocate = 64 << 20

// Sink consumes a download stream. Close settles the sink: success true
// finalizes the output, success false discards any partial output.
type Sink interface {
	Write(p []byte) (int, error)
	Close(success bool) error
}

// BufferSink accumulates the stream in memory. The size hint pre-sizes
// the buffer; the actual byte count may differ in either direction and
// the buffer grows as needed without truncation.
type BufferSink struct {
	buf bytes.Buffer
}

func NewBufferSink(sizeHint int64) *BufferSink {
	sink := &BufferSink{}
	if sizeHint > 0 && sizeHint <= maxPreallocate {
		sink.buf.Grow(int(sizeHint))
	}
	return sink
}

func (s *BufferSink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *BufferSink) Close(bool) error {
	return nil
}

// Bytes returns the accumulated stream. Valid after Close(true).
func (s *BufferSink) Bytes() []byte {
	return s.buf.Bytes()
}

// FileSink writes the stream to <path>.partial and renames it to path on
// successful close. Aborting removes the partial file.
type FileSink struct {
	path    string
	partial string
	file    *os.File
}

func NewFileSink(path string) (*FileSink, error) {
	partial := path + PartialSuffix

	file, err := os.Create(partial)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", partial, err)
	}

	return &FileSink{path: path, partial: partial, file: file}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.file.Write(p)
}

func (s *FileSink) Close(success bool) error {
	closeErr := s.file.Close()

	if !success {
		if err := os.Remove(s.partial); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove partial file %s: %w", s.partial, err)
		}
		return closeErr
	}

	if closeErr != nil {
		return closeErr
	}

	if err := os.Rename(s.partial, s.path); err != nil {
		return fmt.Errorf("failed to finalize %s: %w", s.path, err)
	}

	return nil
}

// Path returns the final destination path.
func (s *FileSink) Path() string {
	return s.path
}
