package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/atotto/clipboard"
	"github.com/reshetovitsme/contentguard/internal/shared/media"
	"github.com/samber/oops"
)

// Assistant performs the manual-share steps when direct publishing fails
type Assistant interface {
	// CopyText puts text on the clipboard.
	CopyText(ctx context.Context, text string) error

	// SaveImage stores the image where the user can pick it up and returns its path.
	SaveImage(ctx context.Context, image *media.Image) (string, error)

	// OpenURL opens url for the user. It reports false when opening is disabled.
	OpenURL(ctx context.Context, url string) (bool, error)
}

var (
	clipboardWriteAll = clipboard.WriteAll
	openCommand       = browserCommand
)

// DesktopAssistant runs the fallback on the machine hosting the service
type DesktopAssistant struct {
	downloadsDir string
	openBrowser  bool
	now          func() time.Time
}

// NewDesktopAssistant saves images into downloadsDir and opens URLs only when openBrowser is set
func NewDesktopAssistant(downloadsDir string, openBrowser bool) *DesktopAssistant {
	return &DesktopAssistant{
		downloadsDir: downloadsDir,
		openBrowser:  openBrowser,
		now:          time.Now,
	}
}

func (a *DesktopAssistant) CopyText(ctx context.Context, text string) error {
	if err := clipboardWriteAll(text); err != nil {
		return oops.With("context", "clipboard unavailable").Wrap(err)
	}
	return nil
}

func (a *DesktopAssistant) SaveImage(ctx context.Context, image *media.Image) (string, error) {
	if err := os.MkdirAll(a.downloadsDir, 0755); err != nil {
		return "", oops.With("dir", a.downloadsDir, "context", "failed to create downloads directory").Wrap(err)
	}

	name := fmt.Sprintf("contentguard_safe_%d%s", a.now().UnixMilli(), media.Extension(image.MIMEType))
	path := filepath.Join(a.downloadsDir, name)
	if err := os.WriteFile(path, image.Data, 0644); err != nil {
		return "", oops.With("path", path, "context", "failed to save image").Wrap(err)
	}
	return path, nil
}

func (a *DesktopAssistant) OpenURL(ctx context.Context, url string) (bool, error) {
	if !a.openBrowser {
		return false, nil
	}

	cmd := openCommand(url)
	if err := cmd.Start(); err != nil {
		return false, oops.With("url", url, "context", "failed to open browser").Wrap(err)
	}
	go cmd.Wait()
	return true, nil
}

// browserCommand builds the OS opener. It is not bound to the request context so the
// browser outlives the publish call.
func browserCommand(url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
