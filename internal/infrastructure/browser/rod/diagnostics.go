package rod

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// captureFailure saves a screenshot of the current page for selector
// debugging. Best effort: screenshot problems are logged, never propagated,
// since diagnostics must not turn a degraded lookup into a failed one.
func (s *Session) captureFailure(label string) {
	if s.cfg.ScreenshotDir == "" || s.page == nil {
		return
	}

	imgBytes, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		s.logger.Warn("failure screenshot capture failed", "label", label, "error", err)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		s.logger.Warn("failure screenshot decode failed", "label", label, "error", err)
		return
	}
	if img.Bounds().Dx() > 1280 {
		img = imaging.Resize(img, 1280, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		s.logger.Warn("failure screenshot encode failed", "label", label, "error", err)
		return
	}

	if err := os.MkdirAll(s.cfg.ScreenshotDir, 0o755); err != nil {
		s.logger.Warn("failure screenshot dir not writable", "error", err)
		return
	}
	name := fmt.Sprintf("%s_%s.jpg", time.Now().Format("2006-01-02_15-04-05"), sanitizeLabel(label))
	path := filepath.Join(s.cfg.ScreenshotDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		s.logger.Warn("failure screenshot write failed", "path", path, "error", err)
		return
	}
	s.logger.Debug("failure screenshot saved", "path", path)
}

func sanitizeLabel(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else {
			result = append(result, '_')
		}
	}
	out := string(result)
	if out == "" {
		return "capture"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return out
}
