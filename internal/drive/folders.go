package drive

import (
	"archive/zip"
	"cmp"
	"context"
	"io"
	"slices"

	"github.com/mmcdole/drivestorage/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// ListFolders returns every live folder with its contents, in creation order
func (d *Drive) ListFolders(ctx context.Context) ([]domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var folders []domain.Folder
	err := d.db.View(func(tx *bolt.Tx) error {
		var records []folderRecord
		err := forEach(tx.Bucket(bucketFolders), func(rec folderRecord) {
			if !rec.Trashed {
				records = append(records, rec)
			}
		})
		if err != nil {
			return err
		}
		slices.SortFunc(records, func(a, b folderRecord) int { return cmp.Compare(a.Seq, b.Seq) })

		folders = make([]domain.Folder, 0, len(records))
		for _, rec := range records {
			folder, err := folderSnapshot(tx, rec)
			if err != nil {
				return err
			}
			folders = append(folders, folder)
		}
		return nil
	})
	return folders, err
}

// CreateFolder creates an empty folder
func (d *Drive) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return domain.Folder{}, err
	}
	name, err := cleanName(name)
	if err != nil {
		return domain.Folder{}, err
	}
	rec, err := d.insertFolder(name)
	if err != nil {
		return domain.Folder{}, err
	}
	d.logger.Info("created folder", "uid", rec.UID, "name", name)
	return domain.Folder{UID: rec.UID, Name: rec.Name, FilesContained: []domain.Entry{}}, nil
}

// UploadFolder creates a folder holding the uploads. The folder and its
// files are written in one transaction, so a failure leaves nothing behind.
func (d *Drive) UploadFolder(ctx context.Context, name string, uploads []domain.Upload) (domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return domain.Folder{}, err
	}
	name, err := cleanName(name)
	if err != nil {
		return domain.Folder{}, err
	}
	items, err := readUploads(ctx, uploads)
	if err != nil {
		return domain.Folder{}, err
	}

	var (
		rec   folderRecord
		files []domain.File
	)
	err = d.db.Update(func(tx *bolt.Tx) error {
		var err error
		if rec, err = d.putFolder(tx, name); err != nil {
			return err
		}
		files, err = d.putFiles(tx, rec.UID, items)
		return err
	})
	if err != nil {
		return domain.Folder{}, err
	}
	d.logger.Info("uploaded folder", "uid", rec.UID, "name", name, "files", len(files))
	return domain.Folder{UID: rec.UID, Name: rec.Name, FilesContained: domain.FilesAsEntries(files)}, nil
}

// TrashFolder marks the folder and every file in it trashed.
// The returned snapshot holds the contents as they were before trashing.
func (d *Drive) TrashFolder(ctx context.Context, uid string) (domain.Folder, error) {
	if err := ctx.Err(); err != nil {
		return domain.Folder{}, err
	}
	var folder domain.Folder
	err := d.db.Update(func(tx *bolt.Tx) error {
		rec, err := liveFolder(tx, uid)
		if err != nil {
			return err
		}
		if folder, err = folderSnapshot(tx, rec); err != nil {
			return err
		}
		children, err := liveChildren(tx, uid)
		if err != nil {
			return err
		}
		for _, child := range children {
			child.Trashed = true
			if err := put(tx.Bucket(bucketFiles), child.UID, child); err != nil {
				return err
			}
		}
		rec.Trashed = true
		return put(tx.Bucket(bucketFolders), uid, rec)
	})
	if err != nil {
		return domain.Folder{}, err
	}
	d.logger.Info("trashed folder", "uid", uid, "files", folder.Len())
	return folder, nil
}

// DownloadFolder writes a zip archive of the folder's files to w
func (d *Drive) DownloadFolder(ctx context.Context, uid string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	type blob struct {
		name string
		data []byte
	}
	var blobs []blob
	err := d.db.View(func(tx *bolt.Tx) error {
		if _, err := liveFolder(tx, uid); err != nil {
			return err
		}
		children, err := liveChildren(tx, uid)
		if err != nil {
			return err
		}
		for _, child := range children {
			data := slices.Clone(tx.Bucket(bucketBlobs).Get([]byte(child.UID)))
			blobs = append(blobs, blob{name: child.Name, data: data})
		}
		return nil
	})
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, b := range blobs {
		fw, err := zw.Create(b.name)
		if err != nil {
			return err
		}
		if _, err := fw.Write(b.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (d *Drive) insertFolder(name string) (folderRecord, error) {
	var rec folderRecord
	err := d.db.Update(func(tx *bolt.Tx) error {
		var err error
		rec, err = d.putFolder(tx, name)
		return err
	})
	return rec, err
}

func (d *Drive) putFolder(tx *bolt.Tx, name string) (folderRecord, error) {
	b := tx.Bucket(bucketFolders)
	seq, err := b.NextSequence()
	if err != nil {
		return folderRecord{}, err
	}
	rec := folderRecord{UID: d.newUID(), Name: name, Seq: seq, CreatedAt: d.now()}
	return rec, put(b, rec.UID, rec)
}
