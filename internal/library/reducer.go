package library

import "fmt"

// Reduce applies one action to s and returns the next state. It is pure:
// s is never modified, and on error the returned state equals s.
func Reduce(s State, action Action) (State, error) {
	switch a := action.(type) {
	case LoadAction:
		return CheckBackPage(Recompute(LoadFiles(LoadFolders(s, a.Folders), a.Files))), nil
	case LoadFilesAction:
		return CheckBackPage(Recompute(LoadFiles(s, a.Files))), nil
	case LoadFoldersAction:
		return CheckBackPage(Recompute(LoadFolders(s, a.Folders))), nil
	case AddFilesAction:
		return Recompute(AddFiles(s, a.Files)), nil
	case AddFoldersAction:
		// An upsert can shrink the displayed folder
		return CheckBackPage(Recompute(AddFolders(s, a.Folders))), nil
	case EditFileAction:
		return Recompute(EditFile(s, a.File)), nil

	case RemoveFileAction:
		next, _ := RemoveFile(s, a.UID)
		return CheckBackPage(Recompute(next)), nil
	case RemoveFolderAction:
		next, _ := RemoveFolder(s, a.UID)
		return CheckBackPage(Recompute(next)), nil
	case RestoreFileAction:
		return Recompute(RestoreFile(s, a.File, a.Placement)), nil
	case RestoreFolderAction:
		return Recompute(RestoreFolder(s, a.Folder, a.Placement)), nil
	case MoveFileAction:
		return CheckBackPage(Recompute(MoveFile(s, a.File, a.DestUID))), nil

	case NavigateToFolderAction:
		return NavigateToFolder(s, a.UID)
	case NavigateToRootAction:
		return NavigateToRoot(s), nil
	case SetPageAction:
		return SetPage(s, a.Index)
	case NextPageAction:
		return SetPage(s, s.CurrentPage+1)
	case PrevPageAction:
		return SetPage(s, s.CurrentPage-1)

	default:
		return s, fmt.Errorf("unknown action %T", action)
	}
}
