package drive

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/mmcdole/drivestorage/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// ListFiles returns the root-level files in upload order
func (d *Drive) ListFiles(ctx context.Context) ([]domain.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []fileRecord
	err := d.db.View(func(tx *bolt.Tx) error {
		return forEach(tx.Bucket(bucketFiles), func(rec fileRecord) {
			if !rec.Trashed && rec.FolderUID == "" {
				records = append(records, rec)
			}
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(a, b fileRecord) int { return cmp.Compare(a.Seq, b.Seq) })
	files := make([]domain.File, len(records))
	for i, rec := range records {
		files[i] = rec.toDomain()
	}
	return files, nil
}

// UploadFiles stores each upload as a root-level file
func (d *Drive) UploadFiles(ctx context.Context, uploads []domain.Upload) ([]domain.File, error) {
	return d.storeUploads(ctx, "", uploads)
}

// TrashFile marks the file trashed. Its blob is kept.
func (d *Drive) TrashFile(ctx context.Context, uid string) (domain.File, error) {
	if err := ctx.Err(); err != nil {
		return domain.File{}, err
	}
	var file domain.File
	err := d.db.Update(func(tx *bolt.Tx) error {
		rec, err := liveFile(tx, uid)
		if err != nil {
			return err
		}
		rec.Trashed = true
		file = rec.toDomain()
		return put(tx.Bucket(bucketFiles), uid, rec)
	})
	if err != nil {
		return domain.File{}, err
	}
	d.logger.Info("trashed file", "uid", uid, "name", file.Name)
	return file, nil
}

// RenameFile changes the file's name
func (d *Drive) RenameFile(ctx context.Context, uid, newName string) (domain.File, error) {
	if err := ctx.Err(); err != nil {
		return domain.File{}, err
	}
	name, err := cleanName(newName)
	if err != nil {
		return domain.File{}, err
	}
	return d.updateFile(uid, func(tx *bolt.Tx, rec *fileRecord) error {
		rec.Name = name
		return nil
	})
}

// MoveFile places the file inside folderUID
func (d *Drive) MoveFile(ctx context.Context, uid, folderUID string) (domain.File, error) {
	if err := ctx.Err(); err != nil {
		return domain.File{}, err
	}
	return d.updateFile(uid, func(tx *bolt.Tx, rec *fileRecord) error {
		if _, err := liveFolder(tx, folderUID); err != nil {
			return err
		}
		rec.FolderUID = folderUID
		return nil
	})
}

// DownloadFile writes the file's bytes to w
func (d *Drive) DownloadFile(ctx context.Context, uid string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var data []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		if _, err := liveFile(tx, uid); err != nil {
			return err
		}
		// Bolt values are only valid inside the transaction.
		data = slices.Clone(tx.Bucket(bucketBlobs).Get([]byte(uid)))
		return nil
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// --- Private helpers ---

func (d *Drive) updateFile(uid string, fn func(tx *bolt.Tx, rec *fileRecord) error) (domain.File, error) {
	var file domain.File
	err := d.db.Update(func(tx *bolt.Tx) error {
		rec, err := liveFile(tx, uid)
		if err != nil {
			return err
		}
		if err := fn(tx, &rec); err != nil {
			return err
		}
		file = rec.toDomain()
		return put(tx.Bucket(bucketFiles), uid, rec)
	})
	return file, err
}

// pendingUpload is an upload whose body has been read and whose name is clean
type pendingUpload struct {
	name string
	data []byte
}

// readUploads drains every body so no write transaction waits on a reader
func readUploads(ctx context.Context, uploads []domain.Upload) ([]pendingUpload, error) {
	items := make([]pendingUpload, 0, len(uploads))
	for _, u := range uploads {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := cleanName(u.Name)
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(u.Body)
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %w", name, err)
		}
		items = append(items, pendingUpload{name: name, data: data})
	}
	return items, nil
}

// storeUploads writes uploads into folderUID, or the root when it is empty
func (d *Drive) storeUploads(ctx context.Context, folderUID string, uploads []domain.Upload) ([]domain.File, error) {
	items, err := readUploads(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var files []domain.File
	err = d.db.Update(func(tx *bolt.Tx) error {
		if folderUID != "" {
			if _, err := liveFolder(tx, folderUID); err != nil {
				return err
			}
		}
		var err error
		files, err = d.putFiles(tx, folderUID, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	d.logger.Info("stored uploads", "count", len(files), "folder", folderUID)
	return files, nil
}

func (d *Drive) putFiles(tx *bolt.Tx, folderUID string, items []pendingUpload) ([]domain.File, error) {
	b := tx.Bucket(bucketFiles)
	files := make([]domain.File, 0, len(items))
	for _, it := range items {
		seq, err := b.NextSequence()
		if err != nil {
			return nil, err
		}
		rec := fileRecord{
			UID:       d.newUID(),
			Name:      it.name,
			Size:      int64(len(it.data)),
			FolderUID: folderUID,
			Seq:       seq,
			CreatedAt: d.now(),
		}
		if err := put(b, rec.UID, rec); err != nil {
			return nil, err
		}
		if err := tx.Bucket(bucketBlobs).Put([]byte(rec.UID), it.data); err != nil {
			return nil, err
		}
		files = append(files, rec.toDomain())
	}
	return files, nil
}
