package sprout

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Screenshot queues a labeled screenshot to be captured at the end of the
// next frame. The resulting PNG is written to ScreenshotDir with a
// timestamped, sequence-numbered filename. Safe to call from Update or Draw.
func (p *Preloader) Screenshot(label string) {
	p.shots = append(p.shots, label)
}

// PendingScreenshots returns the number of queued screenshots.
func (p *Preloader) PendingScreenshots() int { return len(p.shots) }

// flushScreenshots captures the rendered ebiten frame for every queued label.
// Called at the end of Draw.
func (p *Preloader) flushScreenshots(screen *ebiten.Image) {
	if len(p.shots) == 0 {
		return
	}
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	if _, err := p.FlushScreenshots(img); err != nil {
		p.log.Warn("sprout: screenshot failed", zap.Error(err))
	}
}

// FlushScreenshots writes img once for every queued label and clears the
// queue. It returns the written paths. Headless hosts call it after
// rendering to a RasterSurface.
func (p *Preloader) FlushScreenshots(img image.Image) ([]string, error) {
	if len(p.shots) == 0 {
		return nil, nil
	}
	defer func() { p.shots = p.shots[:0] }()

	if err := os.MkdirAll(p.ScreenshotDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "screenshot: mkdir %s", p.ScreenshotDir)
	}
	stamp := time.Now().Format("20060102_150405")

	var paths []string
	for _, label := range p.shots {
		p.shotSeq++
		name := fmt.Sprintf("%s_%04d_%s.png", stamp, p.shotSeq, sanitizeLabel(label))
		path := filepath.Join(p.ScreenshotDir, name)
		if err := WritePNG(path, img); err != nil {
			return paths, err
		}
		p.log.Debug("sprout: screenshot", zap.String("path", path))
		paths = append(paths, path)
	}
	return paths, nil
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
