package upload

import (
	"encoding/base64"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// StagedFile is a temporary local copy of an inbound image, live for exactly
// one upload attempt. Cleanup removes it at most once; removal errors are
// logged and never escalated so they cannot mask the attempt's real result.
type StagedFile struct {
	Path        string
	ContentType string
	Size        int64

	removed bool
	logger  *logrus.Logger
}

func (f *StagedFile) Cleanup() {
	if f == nil || f.removed {
		return
	}
	f.removed = true
	if err := os.Remove(f.Path); err != nil && f.logger != nil {
		f.logger.WithError(err).WithField("path", f.Path).Warn("staged file cleanup failed")
	}
}

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func extensionFor(contentType, filename string) string {
	if ext, ok := extByType[strings.ToLower(contentType)]; ok {
		return ext
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return ".img"
}

// stagedName builds a collision-free filename from a high-resolution
// timestamp and a random component, multer-style.
func stagedName(ext string) string {
	return fmt.Sprintf("image-%d-%d%s", time.Now().UnixNano(), rand.Int63n(1_000_000_000), ext)
}

// stage normalizes either inbound shape to a local staged file. The content
// type is validated and the size ceiling enforced before or during the copy;
// a partially written file never survives an error.
func (p *Pipeline) stage(in ImageInput) (*StagedFile, error) {
	var (
		r           io.Reader
		contentType string
		filename    string
		closeFn     func() error
	)

	switch v := in.(type) {
	case FileRef:
		contentType = v.Header.Header.Get("Content-Type")
		filename = v.Header.Filename
		if v.Header.Size > p.MaxBytes {
			return nil, ErrPayloadTooLarge
		}
		f, err := v.Header.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		r = f
		closeFn = f.Close
	case InlineBase64:
		contentType = v.MimeType
		r = base64.NewDecoder(base64.StdEncoding, strings.NewReader(v.Data))
	default:
		return nil, ErrInvalidPayload
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}

	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrUnsupportedMediaType
	}

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}

	path := filepath.Join(p.Dir, stagedName(extensionFor(contentType, filename)))
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	// Copy one byte past the ceiling so oversize input is detectable without
	// buffering the whole payload.
	n, err := io.Copy(dst, io.LimitReader(r, p.MaxBytes+1))
	cerr := dst.Close()
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if cerr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", cerr)
	}
	if n > p.MaxBytes {
		_ = os.Remove(path)
		return nil, ErrPayloadTooLarge
	}

	return &StagedFile{Path: path, ContentType: contentType, Size: n, logger: p.Logger}, nil
}
