package domain

import (
	"context"
	"io"
)

// Upload is a named blob handed to the remote for storage
type Upload struct {
	Name string
	Body io.Reader
}

// FileRepository provides remote file operations
type FileRepository interface {
	// ListFiles returns all root-level files that are not trashed
	ListFiles(ctx context.Context) ([]File, error)

	// UploadFiles stores each blob as a new root-level file
	UploadFiles(ctx context.Context, uploads []Upload) ([]File, error)

	// TrashFile moves a file to the trash and returns its final snapshot
	TrashFile(ctx context.Context, uid string) (File, error)

	// RenameFile assigns a new name and returns the updated snapshot
	RenameFile(ctx context.Context, uid, newName string) (File, error)

	// MoveFile places a file inside the destination folder
	MoveFile(ctx context.Context, uid, destFolderUID string) (File, error)

	// DownloadFile streams the file's bytes into w
	DownloadFile(ctx context.Context, uid string, w io.Writer) error
}

// FolderRepository provides remote folder operations
type FolderRepository interface {
	// ListFolders returns every folder that is not trashed, with its contents
	ListFolders(ctx context.Context) ([]Folder, error)

	// UploadFolder creates a folder holding one file per blob
	UploadFolder(ctx context.Context, name string, uploads []Upload) (Folder, error)

	// TrashFolder moves a folder (and its contents) to the trash
	TrashFolder(ctx context.Context, uid string) (Folder, error)

	// CreateFolder creates an empty root-level folder
	CreateFolder(ctx context.Context, name string) (Folder, error)

	// DownloadFolder streams a zip archive of the folder into w
	DownloadFolder(ctx context.Context, uid string, w io.Writer) error
}

// RemoteGateway is everything the library core needs from the storage service
type RemoteGateway interface {
	FileRepository
	FolderRepository
}
