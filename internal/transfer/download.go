package transfer

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"devsync/internal/models"
)

const copyChunkSize = 32 * 1024

// ObjectStore is the subset of the object store client the download
// engine depends on.
type ObjectStore interface {
	// ListFolder returns every object under the given prefix.
	ListFolder(ctx context.Context, prefix string) ([]models.RemoteObject, error)

	// OpenObject opens a byte stream for the given key, returning the
	// stream and an advisory size. The caller owns the stream.
	OpenObject(ctx context.Context, key string) (io.ReadCloser, int64, error)
}

// Request describes one object download. Path empty means buffer mode:
// the object is accumulated in memory and returned. Path set means file
// mode: the object is written to that path and nil bytes are returned.
type Request struct {
	Object   models.RemoteObject
	Path     string
	Progress ProgressFunc
}

// Downloader performs single-object downloads: open the stream, pump it
// into a sink, observe cancellation at every I/O boundary, report
// progress per chunk.
type Downloader struct {
	store  ObjectStore
	logger *zap.Logger
}

func NewDownloader(store ObjectStore, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{store: store, logger: logger}
}

// Download executes one download request. Failures are returned as a
// *DownloadError wrapping the cause; cancellation as a *CancelError. In
// file mode at most the final file or nothing exists afterwards, never a
// half-written destination.
func (d *Downloader) Download(ctx context.Context, req Request) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, cancelled(ctx)
	}

	body, size, err := d.store.OpenObject(ctx, req.Object.Key)
	if err != nil {
		return nil, d.wrap(ctx, req, err)
	}
	defer body.Close()

	// Prefer the listed size; fall back to the content length.
	if req.Object.Size > 0 {
		size = req.Object.Size
	}

	var sink Sink
	var buffer *BufferSink

	if req.Path == "" {
		buffer = NewBufferSink(size)
		sink = buffer
	} else {
		fileSink, err := NewFileSink(req.Path)
		if err != nil {
			return nil, d.wrap(ctx, req, err)
		}
		sink = fileSink
	}

	reporter := NewReporter(size, req.Progress)
	copyErr := d.copy(ctx, sink, &progressReader{reader: body, reporter: reporter})
	closeErr := sink.Close(copyErr == nil)

	if copyErr != nil {
		d.logger.Debug("download failed",
			zap.String("key", req.Object.Key),
			zap.Int64("received", reporter.Received()),
			zap.Error(copyErr))
		return nil, d.wrap(ctx, req, copyErr)
	}
	if closeErr != nil {
		return nil, d.wrap(ctx, req, closeErr)
	}

	d.logger.Debug("download complete",
		zap.String("key", req.Object.Key),
		zap.Int64("bytes", reporter.Received()))

	if buffer != nil {
		return buffer.Bytes(), nil
	}
	return nil, nil
}

// copy pumps the stream into the sink in chunks, checking for
// cancellation before every read so an abort tears the transfer down at
// the next I/O boundary.
func (d *Downloader) copy(ctx context.Context, sink Sink, reader io.Reader) error {
	buf := make([]byte, copyChunkSize)

	for {
		select {
		case <-ctx.Done():
			return cancelled(ctx)
		default:
		}

		n, err := reader.Read(buf)
		if n > 0 {
			if _, werr := sink.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// wrap classifies an error: cancellation stays a CancelError, anything
// else becomes a DownloadError carrying the request context.
func (d *Downloader) wrap(ctx context.Context, req Request, err error) error {
	var cancelErr *CancelError
	if errors.As(err, &cancelErr) {
		return err
	}
	// The SDK surfaces a torn-down stream as a context error.
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return cancelled(ctx)
	}

	return &DownloadError{
		Bucket: req.Object.Bucket,
		Key:    req.Object.Key,
		Path:   req.Path,
		Err:    err,
	}
}
