package library

import (
	"fmt"

	"github.com/mmcdole/drivestorage/internal/domain"
)

// NavigateToFolder makes the folder with uid the display folder.
// The page cursor is kept; CheckBackPage corrects it if the page is now empty.
func NavigateToFolder(s State, uid string) (State, error) {
	folder, err := FindFolder(s, uid)
	if err != nil {
		return s, err
	}
	s = Recompute(SetDisplayFolder(s, &folder))
	return CheckBackPage(s), nil
}

// NavigateToRoot clears the display folder
func NavigateToRoot(s State) State {
	s = Recompute(SetDisplayFolder(s, nil))
	return CheckBackPage(s)
}

// SetPage moves the page cursor. Indexes outside [0, TotalPages) are rejected
// and the state is returned unchanged.
func SetPage(s State, index int) (State, error) {
	if index < 0 || index >= s.TotalPages {
		return s, fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, index, s.TotalPages)
	}
	s.CurrentPage = index
	return RecomputeCurrentList(s), nil
}

// CheckBackPage restores a usable view after a structural change:
// an empty page past the first steps back, and an empty first page
// inside a folder returns to the root. It repeats until the view is stable,
// so an empty root page 0 is the only empty result.
func CheckBackPage(s State) State {
	switch {
	case len(s.CurrentList) == 0 && s.CurrentPage > 0:
		// Clamp so the step lands in range even when several pages vanished at once.
		next, err := SetPage(s, min(s.CurrentPage-1, s.TotalPages-1))
		if err != nil {
			return s
		}
		return CheckBackPage(next)
	case len(s.CurrentList) == 0 && s.DisplayFolder != nil:
		return NavigateToRoot(s)
	default:
		return s
	}
}
