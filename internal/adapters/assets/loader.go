// Package assets fetches logo, signature and stamp images and turns them
// into decoded, size-capped PNG assets the layout engine can place.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/csg33k/hrdoc-generator/internal/domain"
)

const maxDownload = 10 << 20

// Reader reads stored files by key.
type Reader interface {
	Read(key string) ([]byte, error)
}

type Loader struct {
	client    *http.Client
	store     Reader
	maxPixels int
	log       *slog.Logger
}

// New returns a Loader. Images larger than maxPixels on either side are
// scaled down preserving aspect ratio.
func New(store Reader, timeout time.Duration, maxPixels int, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		client:    &http.Client{Timeout: timeout},
		store:     store,
		maxPixels: maxPixels,
		log:       log,
	}
}

// Load resolves ref (an http(s) URL or a storage key) into an asset.
func (l *Loader) Load(ctx context.Context, role domain.ImageRole, ref string) (*domain.ImageAsset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty %s reference", domain.ErrInvalidInput, role)
	}
	raw, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch %s image: %w", role, err)
	}
	return l.Decode(role, raw)
}

// Decode decodes raw (png, jpeg, gif, webp or bmp), fits it inside the
// pixel cap and re-encodes it as PNG.
func (l *Loader) Decode(role domain.ImageRole, raw []byte) (*domain.ImageAsset, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s image: %v", domain.ErrUnsupportedImage, role, err)
	}
	b := img.Bounds()
	if l.maxPixels > 0 && (b.Dx() > l.maxPixels || b.Dy() > l.maxPixels) {
		img = imaging.Fit(img, l.maxPixels, l.maxPixels, imaging.Lanczos)
		l.log.Debug("image scaled", "role", role, "from_w", b.Dx(), "from_h", b.Dy(),
			"to_w", img.Bounds().Dx(), "to_h", img.Bounds().Dy())
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode %s image: %w", role, err)
	}
	return &domain.ImageAsset{
		Role:   role,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
		Bytes:  buf.Bytes(),
		Format: "png",
	}, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		if l.store == nil {
			return nil, fmt.Errorf("%w: no storage for key %q", domain.ErrInvalidInput, ref)
		}
		return l.store.Read(ref)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", ref, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownload))
}
