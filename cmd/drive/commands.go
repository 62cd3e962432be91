package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/mmcdole/drivestorage/internal/adapter"
	"github.com/mmcdole/drivestorage/internal/api"
	"github.com/mmcdole/drivestorage/internal/domain"
	"github.com/mmcdole/drivestorage/internal/library"
	"github.com/mmcdole/drivestorage/internal/tui"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const nameColumn = 40

// runBrowse starts the TUI, or prints the first page when stdout is not a terminal
func runBrowse(ctx context.Context, cmd *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runList(ctx, cmd)
	}

	errs := make(chan error, 16)
	edits := make(chan domain.File, 16)
	s, err := openSession(cmd,
		library.WithReporter(tui.ChannelReporter(errs)),
		library.WithNotifier(tui.NewChannelNotifier(edits)),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	states, cancel := s.manager.Subscribe()
	defer cancel()

	model := tui.NewModel(tui.Deps{
		Coordinator: s.coord,
		Queries:     s.queries,
		States:      states,
		Errors:      errs,
		Edits:       edits,
		Trash:       s.bin,
		Launcher:    adapter.NewLauncher(s.cfg.UI.OpenCommand, s.cfg.UI.OpenArgs, "", s.logger.With("component", "launcher")),
		Logger:      s.logger.With("component", "tui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	s.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		s.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	s.logger.Info("shutting down")
	return nil
}

// runList prints one page of the root or a folder
func runList(ctx context.Context, cmd *cli.Command) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}

	if folder := cmd.String("folder"); folder != "" {
		if err := s.coord.NavigateToFolder(ctx, folder); err != nil {
			return err
		}
	}
	if page := int(cmd.Int("page")); page > 1 {
		if err := s.coord.SetPage(ctx, page-1); err != nil {
			return err
		}
	}

	printView(os.Stdout, s.queries.View())
	return nil
}

func printView(w io.Writer, v library.View) {
	fmt.Fprintf(w, "%s  (page %d/%d)\n", v.Path, v.CurrentPage+1, v.TotalPages)
	for _, e := range v.CurrentList {
		fmt.Fprintln(w, formatEntry(e, ""))
	}
}

// formatEntry renders one listing line: kind, padded name, uid and detail
func formatEntry(e domain.Entry, location string) string {
	name := e.GetName()
	detail := location
	switch v := e.(type) {
	case domain.Folder:
		name += "/"
		if detail == "" {
			detail = fmt.Sprintf("%d items", len(v.FilesContained))
		}
	case domain.File:
		if detail == "" && v.Size > 0 {
			detail = fmt.Sprintf("%d bytes", v.Size)
		}
	}
	name = runewidth.FillRight(runewidth.Truncate(name, nameColumn, "..."), nameColumn)
	return fmt.Sprintf("%-6s %s  %s  %s", e.Kind(), name, e.GetUID(), detail)
}

// runFind prints every entry whose name fuzzily matches the query, best first
func runFind(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: drive find QUERY")
	}
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}

	names := s.folderNames()
	matches := s.queries.Search(cmd.Args().First())
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		location := "./"
		if m.FolderUID != "" {
			location = "./" + names[m.FolderUID] + "/"
		}
		fmt.Println(formatEntry(m.Entry, location))
	}
	return nil
}

// runMkdir creates a folder
func runMkdir(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: drive mkdir NAME")
	}
	return withLoaded(ctx, cmd, func(s *session) error {
		if err := s.coord.CreateFolder(ctx, cmd.Args().First()).Wait(ctx); err != nil {
			return err
		}
		fmt.Printf("created %s\n", cmd.Args().First())
		return nil
	})
}

// runTrash trashes each uid; every failure is reported, the first is returned
func runTrash(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("usage: drive trash [--folder] UID...")
	}
	return withLoaded(ctx, cmd, func(s *session) error {
		tasks := make([]*library.Task, 0, cmd.NArg())
		for _, uid := range cmd.Args().Slice() {
			if cmd.Bool("folder") {
				tasks = append(tasks, s.coord.TrashFolder(ctx, uid))
			} else {
				tasks = append(tasks, s.coord.TrashFile(ctx, uid))
			}
		}

		var first error
		for i, task := range tasks {
			uid := cmd.Args().Get(i)
			if err := task.Wait(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", uid, err)
				if first == nil {
					first = err
				}
				continue
			}
			fmt.Printf("trashed %s\n", uid)
		}
		return first
	})
}

// runRename renames a file
func runRename(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return errors.New("usage: drive rename UID NAME")
	}
	return withLoaded(ctx, cmd, func(s *session) error {
		uid, name := cmd.Args().Get(0), cmd.Args().Get(1)
		if err := s.coord.RenameFile(ctx, uid, name).Wait(ctx); err != nil {
			return err
		}
		fmt.Printf("renamed %s to %s\n", uid, name)
		return nil
	})
}

// runMove moves a file into a folder
func runMove(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 2 {
		return errors.New("usage: drive mv UID FOLDER_UID")
	}
	return withLoaded(ctx, cmd, func(s *session) error {
		uid, dest := cmd.Args().Get(0), cmd.Args().Get(1)
		if err := s.coord.MoveFile(ctx, uid, dest).Wait(ctx); err != nil {
			return err
		}
		fmt.Printf("moved %s into %s\n", uid, dest)
		return nil
	})
}

// runUpload sends local files to the root or into a new folder
func runUpload(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return errors.New("usage: drive upload [--as-folder NAME] FILE...")
	}

	uploads := make([]domain.Upload, 0, cmd.NArg())
	for _, path := range cmd.Args().Slice() {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		uploads = append(uploads, domain.Upload{Name: filepath.Base(path), Body: f})
	}

	return withLoaded(ctx, cmd, func(s *session) error {
		var task *library.Task
		if folder := cmd.String("as-folder"); folder != "" {
			task = s.coord.UploadFolder(ctx, folder, uploads)
		} else {
			task = s.coord.UploadFiles(ctx, uploads)
		}
		if err := task.Wait(ctx); err != nil {
			return err
		}
		fmt.Printf("uploaded %d file(s)\n", len(uploads))
		return nil
	})
}

// runGet downloads a file, or a folder as a zip archive
func runGet(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return errors.New("usage: drive get [-o PATH] UID")
	}
	uid := cmd.Args().First()

	return withLoaded(ctx, cmd, func(s *session) error {
		state := s.manager.State()
		var (
			name     string
			download func(context.Context, string, io.Writer) error
		)
		if s.isFolder(uid) {
			folder, _ := library.FindFolder(state, uid)
			name, download = folder.Name+".zip", s.coord.DownloadFolder
		} else {
			file, err := library.FindFile(state, uid)
			if err != nil {
				return err
			}
			name, download = file.Name, s.coord.DownloadFile
		}

		out := cmd.String("output")
		if out == "" {
			out = name
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := download(ctx, uid, f); err != nil {
			f.Close()
			os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", out)
		return nil
	})
}

// withLoaded runs fn against a freshly loaded session
func withLoaded(ctx context.Context, cmd *cli.Command, fn func(s *session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.load(ctx); err != nil {
		return err
	}
	return fn(s)
}

// runServe exposes the local drive over HTTP until interrupted
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if a := cmd.String("addr"); a != "" {
		addr = a
	}

	d, err := adapter.OpenLocalDrive(&cfg.Remote, logger)
	if err != nil {
		return fmt.Errorf("failed to open drive: %w", err)
	}
	defer d.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(d, cfg.Server.Token, logger.With("component", "api")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api listening", "addr", addr, "auth", cfg.Server.Token != "")
		fmt.Printf("serving %s on http://%s\n", cfg.Remote.DataDir, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down api")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
