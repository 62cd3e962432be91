package library

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/drivestorage/internal/domain"
)

// Option configures a Coordinator
type Option func(*Coordinator)

// WithTrash sets the collaborator that receives trashed entities
func WithTrash(sink domain.TrashSink) Option {
	return func(c *Coordinator) { c.trash = sink }
}

// WithNotifier sets the collaborator told about renamed and moved files
func WithNotifier(n domain.EditingNotifier) Option {
	return func(c *Coordinator) { c.notifier = n }
}

// WithReporter sets the callback that receives every surfaced failure
func WithReporter(r domain.ErrorReporter) Option {
	return func(c *Coordinator) { c.report = r }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// Coordinator runs every user intent as an optimistic local edit followed by
// a remote confirmation or a rollback. Intents return immediately with a Task;
// remote calls never block further intents.
type Coordinator struct {
	manager  *Manager
	remote   domain.RemoteGateway
	trash    domain.TrashSink
	notifier domain.EditingNotifier
	report   domain.ErrorReporter
	logger   *slog.Logger

	mu       sync.Mutex // guards closed and inflight.Add
	closed   bool
	inflight sync.WaitGroup
}

// NewCoordinator creates a coordinator over the manager's state
func NewCoordinator(manager *Manager, remote domain.RemoteGateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		manager:  manager,
		remote:   remote,
		trash:    domain.NoOpTrash{},
		notifier: domain.NoOpNotifier{},
		report:   func(error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// State returns the latest settled library state
func (c *Coordinator) State() State {
	return c.manager.State()
}

// Close stops accepting intents and blocks until every issued intent has run
// its continuation. Intents issued afterwards fail with ErrClosed.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.inflight.Wait()
}

// === Trash ===

// TrashFile removes the file locally, then asks the remote to trash it.
// On failure the original snapshot is restored at its original position.
func (c *Coordinator) TrashFile(ctx context.Context, uid string) *Task {
	var (
		file      domain.File
		placement Placement
	)
	_, err := c.manager.Apply(ctx, func(s State) (State, error) {
		found, err := FindFile(s, uid)
		if err != nil {
			return s, err
		}
		file = found
		next, p := RemoveFile(s, uid)
		placement = p
		return CheckBackPage(Recompute(next)), nil
	})
	if err != nil {
		return c.fail(err)
	}

	return c.await(ctx, "trash file", uid, func(ctx context.Context) error {
		trashed, err := c.remote.TrashFile(ctx, uid)
		if err != nil {
			return err
		}
		c.trash.AddFile(trashed)
		return nil
	}, func() {
		c.dispatch(RestoreFileAction{File: file, Placement: placement})
	})
}

// TrashFolder removes the folder locally, then asks the remote to trash it
func (c *Coordinator) TrashFolder(ctx context.Context, uid string) *Task {
	var (
		folder    domain.Folder
		placement Placement
	)
	_, err := c.manager.Apply(ctx, func(s State) (State, error) {
		found, err := FindFolder(s, uid)
		if err != nil {
			return s, err
		}
		folder = found
		next, p := RemoveFolder(s, uid)
		placement = p
		return CheckBackPage(Recompute(next)), nil
	})
	if err != nil {
		return c.fail(err)
	}

	return c.await(ctx, "trash folder", uid, func(ctx context.Context) error {
		trashed, err := c.remote.TrashFolder(ctx, uid)
		if err != nil {
			return err
		}
		c.trash.AddFolder(trashed)
		return nil
	}, func() {
		c.dispatch(RestoreFolderAction{Folder: folder, Placement: placement})
	})
}

// === Create / Rename / Move ===

// CreateFolder asks the remote for a new folder and inserts it on success
func (c *Coordinator) CreateFolder(ctx context.Context, name string) *Task {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.fail(fmt.Errorf("%w: folder name is empty", domain.ErrInvalidName))
	}
	return c.await(ctx, "create folder", "", func(ctx context.Context) error {
		folder, err := c.remote.CreateFolder(ctx, name)
		if err != nil {
			return err
		}
		c.dispatch(AddFoldersAction{Folders: []domain.Folder{folder}})
		return nil
	}, nil)
}

// RenameFile asks the remote to rename the file and replaces the snapshot on success
func (c *Coordinator) RenameFile(ctx context.Context, uid, newName string) *Task {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return c.fail(fmt.Errorf("%w: file name is empty", domain.ErrInvalidName))
	}
	if _, err := FindFile(c.manager.State(), uid); err != nil {
		return c.fail(err)
	}
	return c.await(ctx, "rename file", uid, func(ctx context.Context) error {
		renamed, err := c.remote.RenameFile(ctx, uid, newName)
		if err != nil {
			return err
		}
		c.dispatch(EditFileAction{File: renamed})
		c.notifier.NotifyEdited(renamed)
		return nil
	}, nil)
}

// MoveFile asks the remote to move the file into destUID. On success the file
// leaves the current view and appears inside the destination folder.
func (c *Coordinator) MoveFile(ctx context.Context, uid, destUID string) *Task {
	state := c.manager.State()
	if _, err := FindFile(state, uid); err != nil {
		return c.fail(err)
	}
	if _, err := FindFolder(state, destUID); err != nil {
		return c.fail(err)
	}
	return c.await(ctx, "move file", uid, func(ctx context.Context) error {
		moved, err := c.remote.MoveFile(ctx, uid, destUID)
		if err != nil {
			return err
		}
		c.dispatch(MoveFileAction{File: moved, DestUID: destUID})
		c.notifier.NotifyEdited(moved)
		return nil
	}, nil)
}

// === Upload ===

// UploadFiles sends blobs to the remote and adds the resulting files
func (c *Coordinator) UploadFiles(ctx context.Context, uploads []domain.Upload) *Task {
	return c.await(ctx, "upload files", "", func(ctx context.Context) error {
		files, err := c.remote.UploadFiles(ctx, uploads)
		if err != nil {
			return err
		}
		c.dispatch(AddFilesAction{Files: files})
		return nil
	}, nil)
}

// UploadFolder sends blobs as a new folder and adds it
func (c *Coordinator) UploadFolder(ctx context.Context, name string, uploads []domain.Upload) *Task {
	name = strings.TrimSpace(name)
	if name == "" {
		return c.fail(fmt.Errorf("%w: folder name is empty", domain.ErrInvalidName))
	}
	return c.await(ctx, "upload folder", "", func(ctx context.Context) error {
		folder, err := c.remote.UploadFolder(ctx, name, uploads)
		if err != nil {
			return err
		}
		c.dispatch(AddFoldersAction{Folders: []domain.Folder{folder}})
		return nil
	}, nil)
}

// --- Private helpers ---

// await runs call on its own goroutine. The call sees a context that is never
// cancelled, so an issued remote operation always resolves and its
// continuation always runs. rollback, if set, runs when call fails.
func (c *Coordinator) await(
	ctx context.Context,
	op, uid string,
	call func(ctx context.Context) error,
	rollback func(),
) *Task {
	task := newTask()
	remoteCtx := context.WithoutCancel(ctx)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		if rollback != nil {
			rollback()
		}
		task.finish(ErrClosed)
		return task
	}
	c.inflight.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.inflight.Done()

		err := call(remoteCtx)
		if err == nil {
			c.logger.Debug("remote operation committed", "op", op, "uid", uid)
			task.finish(nil)
			return
		}

		err = &domain.RemoteError{Op: op, UID: uid, Err: err}
		if rollback != nil {
			c.logger.Warn("remote operation failed, rolling back", "op", op, "uid", uid, "error", err)
			rollback()
		} else {
			c.logger.Warn("remote operation failed", "op", op, "uid", uid, "error", err)
		}
		c.report(err)
		task.finish(err)
	}()
	return task
}

// dispatch applies a continuation action. Continuations are never cancelled.
func (c *Coordinator) dispatch(action Action) {
	if _, err := c.manager.Dispatch(context.Background(), action); err != nil {
		c.logger.Error("failed to apply continuation", "error", err)
	}
}

// fail reports err and returns an already-failed task
func (c *Coordinator) fail(err error) *Task {
	c.logger.Debug("intent rejected", "error", err)
	c.report(err)
	return failedTask(err)
}
