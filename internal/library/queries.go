package library

import "github.com/mmcdole/drivestorage/internal/domain"

// View is the read-only projection consumed by the presentation layer
type View struct {
	Path          string
	DisplayFolder *domain.Folder
	CurrentList   []domain.Entry
	CurrentPage   int
	TotalPages    int
}

// ViewOf projects a state for display
func ViewOf(s State) View {
	return View{
		Path:          s.Path(),
		DisplayFolder: s.DisplayFolder,
		CurrentList:   s.CurrentList,
		CurrentPage:   s.CurrentPage,
		TotalPages:    s.TotalPages,
	}
}

// Queries provides synchronous reads of the live state.
// All methods return instantly and never touch the network.
type Queries struct {
	manager *Manager
}

// NewQueries creates a new Queries instance.
func NewQueries(manager *Manager) *Queries {
	return &Queries{manager: manager}
}

func (q *Queries) View() View {
	return ViewOf(q.manager.State())
}

func (q *Queries) Folders() []domain.Folder {
	return q.manager.State().Folders
}

func (q *Queries) Files() []domain.File {
	return q.manager.State().Files
}

func (q *Queries) Search(query string) []Match {
	return Search(q.manager.State(), query)
}
