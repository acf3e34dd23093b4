package popup

import (
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/logger"
)

// Ensure BrowserLauncher implements the interface.
var _ driven.PopupLauncher = (*BrowserLauncher)(nil)

// appModeBrowsers are tried in order for a dedicated popup window. App
// mode gives us a child process whose lifetime tracks the window, so the
// broker's closed-poll watcher has something real to observe.
var appModeBrowsers = []string{
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"microsoft-edge",
	"brave-browser",
}

// BrowserLauncher opens authorization URLs in a browser window.
//
// When a Chromium-family browser is installed, the URL opens in a
// dedicated app-mode window and the returned handle reports closure when
// that process exits. Otherwise the system default browser is used; the
// opener command returns immediately, so closure cannot be observed and
// the handle reports the window as open until closed explicitly.
type BrowserLauncher struct {
	// lookPath is swappable for tests.
	lookPath func(string) (string, error)
	// startCommand is swappable for tests.
	startCommand func(*exec.Cmd) error
}

// NewBrowserLauncher creates a launcher using the host's browsers.
func NewBrowserLauncher() *BrowserLauncher {
	return &BrowserLauncher{
		lookPath:     exec.LookPath,
		startCommand: (*exec.Cmd).Start,
	}
}

// Open opens the URL in a popup window and returns its handle. An error
// means no window could be opened at all (the blocked-popup case).
func (l *BrowserLauncher) Open(url string) (driven.PopupHandle, error) {
	for _, name := range appModeBrowsers {
		path, err := l.lookPath(name)
		if err != nil {
			continue
		}
		//nolint:gosec // The browser path comes from LookPath, not user input.
		cmd := exec.Command(path, "--app="+url)
		if err := l.startCommand(cmd); err != nil {
			logger.Warn("popup: failed to start %s: %v", name, err)
			continue
		}
		logger.Debug("popup: opened app window via %s", name)
		handle := &processHandle{cmd: cmd}
		go handle.watch()
		return handle, nil
	}

	cmd, err := l.defaultOpener(url)
	if err != nil {
		return nil, err
	}
	if err := l.startCommand(cmd); err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}
	logger.Debug("popup: opened via system default browser")
	return &detachedHandle{}, nil
}

// defaultOpener builds the platform's open-URL command.
func (l *BrowserLauncher) defaultOpener(url string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// processHandle tracks a dedicated browser window process.
type processHandle struct {
	cmd *exec.Cmd

	mu     sync.Mutex
	closed bool
}

// watch waits for the window process to exit.
func (h *processHandle) watch() {
	//nolint:errcheck // A non-zero exit still means the window is gone.
	_ = h.cmd.Wait()
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
}

// Closed reports whether the window process has exited.
func (h *processHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close force-kills the window process. Idempotent.
func (h *processHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.mu.Unlock()

	if h.cmd.Process != nil {
		//nolint:errcheck // The process may have exited between the check and the kill.
		_ = h.cmd.Process.Kill()
	}
	return nil
}

// detachedHandle represents a tab in the user's default browser. The
// opener process is not the window, so closure is unobservable; the
// message and timeout watchers carry the handshake instead.
type detachedHandle struct {
	mu     sync.Mutex
	closed bool
}

// Closed reports true only after an explicit Close.
func (h *detachedHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close marks the handle closed. The tab itself cannot be closed remotely.
func (h *detachedHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}
