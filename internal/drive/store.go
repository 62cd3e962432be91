// Package drive is a local storage service backed by BoltDB. It implements
// domain.RemoteGateway so the library can run without a network server.
package drive

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/drivestorage/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFiles   = []byte("files")
	bucketFolders = []byte("folders")
	bucketBlobs   = []byte("blobs")
)

// fileRecord is the stored form of a file
type fileRecord struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	FolderUID string    `json:"folderUid,omitempty"` // Empty for root-level files
	Seq       uint64    `json:"seq"`
	Trashed   bool      `json:"trashed"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r fileRecord) toDomain() domain.File {
	return domain.File{UID: r.UID, Name: r.Name, Size: r.Size}
}

type folderRecord struct {
	UID       string    `json:"uid"`
	Name      string    `json:"name"`
	Seq       uint64    `json:"seq"`
	Trashed   bool      `json:"trashed"`
	CreatedAt time.Time `json:"createdAt"`
}

var _ domain.RemoteGateway = (*Drive)(nil)

// Drive implements domain.RemoteGateway using BoltDB.
type Drive struct {
	db     *bolt.DB
	logger *slog.Logger
	newUID func() string
	now    func() time.Time
}

// Open opens (creating if needed) the drive database in dataDir
func Open(dataDir string, logger *slog.Logger) (*Drive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dataDir, "drive.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketFiles, bucketFolders, bucketBlobs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("opened drive", "path", dbPath)
	return &Drive{
		db:     db,
		logger: logger,
		newUID: func() string { return uuid.NewString() },
		now:    time.Now,
	}, nil
}

func (d *Drive) Close() error {
	return d.db.Close()
}

// === Generic helpers ===

func get(b *bolt.Bucket, key string, dest interface{}) bool {
	v := b.Get([]byte(key))
	if v == nil {
		return false
	}
	return json.Unmarshal(v, dest) == nil
}

func put(b *bolt.Bucket, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}

// forEach decodes every record in b into T
func forEach[T any](b *bolt.Bucket, fn func(T)) error {
	return b.ForEach(func(_, v []byte) error {
		var rec T
		if err := json.Unmarshal(v, &rec); err != nil {
			return err
		}
		fn(rec)
		return nil
	})
}

func liveFile(tx *bolt.Tx, uid string) (fileRecord, error) {
	var rec fileRecord
	if !get(tx.Bucket(bucketFiles), uid, &rec) || rec.Trashed {
		return rec, domain.NotFound(domain.KindFile, uid)
	}
	return rec, nil
}

func liveFolder(tx *bolt.Tx, uid string) (folderRecord, error) {
	var rec folderRecord
	if !get(tx.Bucket(bucketFolders), uid, &rec) || rec.Trashed {
		return rec, domain.NotFound(domain.KindFolder, uid)
	}
	return rec, nil
}

// liveChildren returns the non-trashed files of folderUID in insertion order
func liveChildren(tx *bolt.Tx, folderUID string) ([]fileRecord, error) {
	var out []fileRecord
	err := forEach(tx.Bucket(bucketFiles), func(rec fileRecord) {
		if !rec.Trashed && rec.FolderUID == folderUID {
			out = append(out, rec)
		}
	})
	slices.SortFunc(out, func(a, b fileRecord) int { return cmp.Compare(a.Seq, b.Seq) })
	return out, err
}

func folderSnapshot(tx *bolt.Tx, rec folderRecord) (domain.Folder, error) {
	children, err := liveChildren(tx, rec.UID)
	if err != nil {
		return domain.Folder{}, err
	}
	folder := domain.Folder{UID: rec.UID, Name: rec.Name, FilesContained: make([]domain.Entry, 0, len(children))}
	for _, c := range children {
		folder.FilesContained = append(folder.FilesContained, c.toDomain())
	}
	return folder, nil
}
