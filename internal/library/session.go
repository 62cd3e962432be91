package library

import (
	"context"
	"io"

	"github.com/mmcdole/drivestorage/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Load fetches the remote catalogue and replaces the mirror with it. Calling it
// again mid-session drops entities the remote no longer has.
// Files and folders are fetched concurrently; nothing is applied unless both succeed.
func (c *Coordinator) Load(ctx context.Context) error {
	var (
		files   []domain.File
		folders []domain.Folder
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if files, err = c.remote.ListFiles(gCtx); err != nil {
			return &domain.RemoteError{Op: "list files", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if folders, err = c.remote.ListFolders(gCtx); err != nil {
			return &domain.RemoteError{Op: "list folders", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		c.logger.Error("failed to load library", "error", err)
		c.report(err)
		return err
	}

	if _, err := c.manager.Dispatch(ctx, LoadAction{Files: files, Folders: folders}); err != nil {
		return err
	}
	c.logger.Info("loaded library", "files", len(files), "folders", len(folders))
	return nil
}

// === Navigation ===

// NavigateToFolder opens the folder with uid
func (c *Coordinator) NavigateToFolder(ctx context.Context, uid string) error {
	return c.navigate(ctx, NavigateToFolderAction{UID: uid})
}

// NavigateToRoot returns to the root listing
func (c *Coordinator) NavigateToRoot(ctx context.Context) error {
	return c.navigate(ctx, NavigateToRootAction{})
}

// SetPage moves to page index
func (c *Coordinator) SetPage(ctx context.Context, index int) error {
	return c.navigate(ctx, SetPageAction{Index: index})
}

// NextPage moves one page forward
func (c *Coordinator) NextPage(ctx context.Context) error {
	return c.navigate(ctx, NextPageAction{})
}

// PrevPage moves one page back
func (c *Coordinator) PrevPage(ctx context.Context) error {
	return c.navigate(ctx, PrevPageAction{})
}

func (c *Coordinator) navigate(ctx context.Context, action Action) error {
	if _, err := c.manager.Dispatch(ctx, action); err != nil {
		c.report(err)
		return err
	}
	return nil
}

// === Downloads ===

// DownloadFile streams a file's bytes into w
func (c *Coordinator) DownloadFile(ctx context.Context, uid string, w io.Writer) error {
	if err := c.remote.DownloadFile(ctx, uid, w); err != nil {
		err = &domain.RemoteError{Op: "download file", UID: uid, Err: err}
		c.report(err)
		return err
	}
	return nil
}

// DownloadFolder streams a zip archive of a folder into w
func (c *Coordinator) DownloadFolder(ctx context.Context, uid string, w io.Writer) error {
	if err := c.remote.DownloadFolder(ctx, uid, w); err != nil {
		err = &domain.RemoteError{Op: "download folder", UID: uid, Err: err}
		c.report(err)
		return err
	}
	return nil
}
