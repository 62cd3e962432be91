package adapter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/drivestorage/internal/domain"
)

// Downloader fetches a file's bytes. Satisfied by library.Coordinator.
type Downloader interface {
	DownloadFile(ctx context.Context, uid string, w io.Writer) error
}

// Launcher opens downloaded files in an external application
type Launcher struct {
	command string   // configured command, empty for system default
	args    []string // additional arguments for the command
	tempDir string
	logger  *slog.Logger
}

// NewLauncher creates a Launcher. Files are downloaded under tempDir,
// or the OS temp directory when empty.
func NewLauncher(command string, args []string, tempDir string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "drive-open")
	}
	return &Launcher{
		command: command,
		args:    args,
		tempDir: tempDir,
		logger:  logger,
	}
}

// Open downloads file into the temp directory and launches it.
// The launched process is not waited for.
func (l *Launcher) Open(ctx context.Context, d Downloader, file domain.File) error {
	path, err := l.fetch(ctx, d, file)
	if err != nil {
		return err
	}
	if l.command != "" {
		return l.launchConfigured(path)
	}
	return l.launchDefault(path)
}

func (l *Launcher) fetch(ctx context.Context, d Downloader, file domain.File) (string, error) {
	dir := filepath.Join(l.tempDir, file.UID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(file.Name))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := d.DownloadFile(ctx, file.UID, f); err != nil {
		os.Remove(path)
		return "", err
	}
	l.logger.Debug("downloaded file for opening", "uid", file.UID, "path", path)
	return path, nil
}

// tryLaunchWithCommand starts command with args and path. Returns an error
// if the command is not in PATH.
func tryLaunchWithCommand(command string, path string, args []string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), path)
	return exec.Command(command, cmdArgs...).Start() // Start async, don't wait
}

// launchConfigured opens path using the configured command
func (l *Launcher) launchConfigured(path string) error {
	l.logger.Info("launching configured opener", "command", l.command, "args", l.args, "path", path)

	// On macOS, GUI apps are usually not in PATH; fall back to 'open -a'
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath(l.command); err != nil {
			cmdArgs := []string{"-a", l.command}
			if len(l.args) > 0 {
				cmdArgs = append(cmdArgs, "--args")
				cmdArgs = append(cmdArgs, l.args...)
			}
			cmdArgs = append(cmdArgs, path)
			return exec.Command("open", cmdArgs...).Start()
		}
	}
	return tryLaunchWithCommand(l.command, path, l.args)
}

// launchDefault opens path using the system default handler
func (l *Launcher) launchDefault(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		// Linux and other Unix-like systems
		cmd = exec.Command("xdg-open", path)
	}

	l.logger.Info("launching with system default", "os", runtime.GOOS, "path", path)
	return cmd.Start()
}

// CommandName returns the configured command or a description of the default
func (l *Launcher) CommandName() string {
	if l.command != "" {
		return filepath.Base(l.command)
	}
	return strings.ToLower(runtime.GOOS) + " default"
}
