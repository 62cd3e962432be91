package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "drive",
		Usage:   "Browse and manage a paginated file and folder library",
		Version: Version,
		Action:  runBrowse,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: ~/.config/drive/config.yaml)",
				Sources: cli.EnvVars("DRIVE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "browse",
				Usage:  "Open the interactive browser (prints the first page when not on a terminal)",
				Action: runBrowse,
			},
			{
				Name:      "ls",
				Usage:     "List one page of the root or a folder",
				ArgsUsage: " ",
				Action:    runList,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "folder", Aliases: []string{"f"}, Usage: "Folder uid to list"},
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "Page number, starting at 1"},
				},
			},
			{
				Name:      "find",
				Usage:     "Fuzzy search every file and folder name",
				ArgsUsage: "QUERY",
				Action:    runFind,
			},
			{
				Name:      "mkdir",
				Usage:     "Create an empty folder",
				ArgsUsage: "NAME",
				Action:    runMkdir,
			},
			{
				Name:      "trash",
				Usage:     "Move files (or folders with --folder) to the trash",
				ArgsUsage: "UID...",
				Action:    runTrash,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "folder", Usage: "Treat the uids as folders"},
				},
			},
			{
				Name:      "rename",
				Usage:     "Rename a file",
				ArgsUsage: "UID NAME",
				Action:    runRename,
			},
			{
				Name:      "mv",
				Usage:     "Move a file into a folder",
				ArgsUsage: "UID FOLDER_UID",
				Action:    runMove,
			},
			{
				Name:      "upload",
				Usage:     "Upload local files to the root, or into a new folder with --as-folder",
				ArgsUsage: "FILE...",
				Action:    runUpload,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "as-folder", Usage: "Create a folder with this name holding the files"},
				},
			},
			{
				Name:      "get",
				Usage:     "Download a file, or a folder as a zip archive",
				ArgsUsage: "UID",
				Action:    runGet,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Destination path (default: the entry name)"},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the local drive over HTTP",
				Action: runServe,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "Listen address (overrides server.addr)"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
