package upload

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// Pipeline stages an inbound image locally, pushes it to remote object
// storage, and guarantees the staged copy is removed on every exit path.
// One attempt per call; nothing is shared across requests or retried.
type Pipeline struct {
	Store    ObjectStorage
	Dir      string // local staging directory, lazily created
	Folder   string // logical folder for covers in the object store
	MaxBytes int64
	Logger   *logrus.Logger
}

func NewPipeline(store ObjectStorage, dir, folder string, maxBytes int64, logger *logrus.Logger) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	return &Pipeline{Store: store, Dir: dir, Folder: folder, MaxBytes: maxBytes, Logger: logger}
}

// Upload runs one attempt: Received -> Staged -> Uploading -> Uploaded or
// Failed, with cleanup before either result is returned. The secure URL is
// only handed back after the remote store confirmed the transfer, so the
// caller never sees partial state.
func (p *Pipeline) Upload(ctx context.Context, in ImageInput) (string, error) {
	if in == nil {
		return "", ErrInvalidPayload
	}
	staged, err := p.stage(in)
	if err != nil {
		return "", err
	}
	defer staged.Cleanup()

	f, err := os.Open(staged.Path)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer func() { _ = f.Close() }()

	// Object names carry no extension; the store serves the recorded content
	// type, and deletion derives this exact path back from the URL.
	base := strings.TrimSuffix(path.Base(staged.Path), path.Ext(staged.Path))
	objectPath := p.Folder + "/" + base

	secureURL, err := p.Store.Upload(ctx, objectPath, staged.ContentType, f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if p.Logger != nil {
		p.Logger.WithFields(logrus.Fields{"object": objectPath, "bytes": staged.Size}).Debug("cover uploaded")
	}
	return secureURL, nil
}

// Delete removes the remote object a previously stored secure URL points at.
func (p *Pipeline) Delete(ctx context.Context, secureURL string) error {
	objectPath := ObjectPathFromURL(secureURL)
	if objectPath == "" {
		return fmt.Errorf("%w: cannot derive object path from %q", ErrDeletionFailed, secureURL)
	}
	if err := p.Store.Delete(ctx, objectPath); err != nil {
		return fmt.Errorf("%w: %v", ErrDeletionFailed, err)
	}
	return nil
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// ObjectPathFromURL derives the remote object's logical identifier from a
// secure URL: the URL path minus the bucket segment, any version segment,
// and the file extension. Returns "" when nothing derivable remains.
func ObjectPathFromURL(secureURL string) string {
	u, err := url.Parse(secureURL)
	if err != nil || u.Path == "" {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) < 2 {
		return ""
	}
	// First segment is the bucket (or cloud name); a trailing "v<digits>"
	// style version segment may follow it.
	segs = segs[1:]
	for len(segs) > 0 && versionSegment.MatchString(segs[0]) {
		segs = segs[1:]
	}
	object := strings.Join(segs, "/")
	object = strings.TrimSuffix(object, path.Ext(object))
	return object
}
