package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"devsync/internal/models"
)

// FailedObject pairs an object with the error that sank its download.
type FailedObject struct {
	Object models.RemoteObject
	Err    error
}

// Session tracks the settlement of one folder download batch. Counter
// updates are serialized; at any point succeeded+failed <= total, with
// equality exactly once every per-object attempt has settled.
type Session struct {
	ID      string
	Prefix  string
	Dir     string
	Objects []models.RemoteObject

	mu        sync.Mutex
	succeeded []models.RemoteObject
	failed    []FailedObject
	bytes     int64
}

func newSession(prefix, dir string, objects []models.RemoteObject) *Session {
	return &Session{
		ID:      uuid.NewString(),
		Prefix:  prefix,
		Dir:     dir,
		Objects: objects,
	}
}

func (s *Session) recordSuccess(obj models.RemoteObject, bytes int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.succeeded = append(s.succeeded, obj)
	s.bytes += bytes
}

func (s *Session) recordFailure(obj models.RemoteObject, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = append(s.failed, FailedObject{Object: obj, Err: err})
}

// Succeeded returns the objects downloaded successfully.
func (s *Session) Succeeded() []models.RemoteObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.RemoteObject(nil), s.succeeded...)
}

// Failed returns the objects whose downloads failed, with their errors.
func (s *Session) Failed() []FailedObject {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]FailedObject(nil), s.failed...)
}

// Bytes returns the total bytes of all successful downloads.
func (s *Session) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bytes
}

// Err aggregates the per-object failures, nil when everything succeeded.
// The batch itself does not fail on individual objects; this is the
// summary for callers who want one error value.
func (s *Session) Err() error {
	var result *multierror.Error
	for _, failure := range s.Failed() {
		result = multierror.Append(result, fmt.Errorf("%s: %w", failure.Object.Key, failure.Err))
	}
	return result.ErrorOrNil()
}

// FolderRequest describes one folder download batch.
type FolderRequest struct {
	// Prefix of the objects to download.
	Prefix string

	// DestinationRoot is the chosen local directory. Empty means the user
	// declined to choose one and the batch is cancelled.
	DestinationRoot string

	// FolderName, when set, is created as a subdirectory of the root and
	// downloads land inside it. Creation is idempotent.
	FolderName string

	// ProgressFor, when set, supplies a per-object progress sink.
	ProgressFor func(obj models.RemoteObject) ProgressFunc
}

// FolderDownloader downloads every object under a prefix into a local
// directory, one file per object, tracking exactly which succeeded and
// which failed. One object's failure never aborts or cancels its
// siblings; the batch only fails outright on a listing error or when no
// destination was chosen.
type FolderDownloader struct {
	store      ObjectStore
	downloader *Downloader
	logger     *zap.Logger
	workers    int
}

func NewFolderDownloader(store ObjectStore, logger *zap.Logger, workers int) *FolderDownloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FolderDownloader{
		store:      store,
		downloader: NewDownloader(store, logger),
		logger:     logger,
		workers:    workers,
	}
}

// DownloadAll lists the prefix, prepares the destination directory, runs
// one download task per object on a bounded worker pool, and joins the
// pool before returning. The returned session is settled: every listed
// object is accounted for as succeeded or failed.
func (f *FolderDownloader) DownloadAll(ctx context.Context, req FolderRequest) (*Session, error) {
	if req.DestinationRoot == "" {
		return nil, &CancelError{Agent: AgentUser, Err: errors.New("no destination directory chosen")}
	}

	objects, err := f.store.ListFolder(ctx, req.Prefix)
	if err != nil {
		// Listing failures surface as-is
		return nil, err
	}

	dir := req.DestinationRoot
	if req.FolderName != "" {
		dir = filepath.Join(dir, req.FolderName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory %s: %w", dir, err)
	}

	session := newSession(req.Prefix, dir, objects)

	f.logger.Info("starting folder download",
		zap.String("session", session.ID),
		zap.String("prefix", req.Prefix),
		zap.String("dir", dir),
		zap.Int("objects", len(objects)))

	pool := NewPool(ctx, f.workers, f.logger)

	for _, obj := range objects {
		obj := obj

		task := func(ctx context.Context) error {
			request := Request{
				Object: obj,
				Path:   filepath.Join(dir, obj.Name),
			}
			if req.ProgressFor != nil {
				request.Progress = req.ProgressFor(obj)
			}

			size := obj.Size
			if _, err := f.downloader.Download(ctx, request); err != nil {
				session.recordFailure(obj, err)
				return err
			}

			session.recordSuccess(obj, size)
			return nil
		}

		if err := pool.Queue(task); err != nil {
			// Pool context cancelled before the task was accepted; the
			// object still has to settle.
			session.recordFailure(obj, cancelled(ctx))
		}
	}

	pool.Stop()

	f.logger.Info("folder download settled",
		zap.String("session", session.ID),
		zap.Int("succeeded", len(session.Succeeded())),
		zap.Int("failed", len(session.Failed())))

	return session, nil
}
