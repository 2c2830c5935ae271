package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeStore records calls and can be told to fail.
type fakeStore struct {
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, objectPath)
	return "https://storage.googleapis.com/test-bucket/" + objectPath, nil
}

func (f *fakeStore) Delete(_ context.Context, objectPath string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, objectPath)
	return nil
}

func newTestPipeline(t *testing.T, store ObjectStorage) *Pipeline {
	t.Helper()
	return NewPipeline(store, t.TempDir(), "book-covers", 1<<20, nil)
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return // never staged anything
	}
	require.NoError(t, err)
	require.Empty(t, entries, "staged files left behind")
}

func pngBase64(n int) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x89}, n))
}

func TestUploadBase64Success(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	url, err := p.Upload(context.Background(), FromBase64(pngBase64(128), "image/png"))
	require.NoError(t, err)
	require.Contains(t, url, "/book-covers/")
	require.Len(t, store.uploads, 1)
	require.True(t, strings.HasPrefix(store.uploads[0], "book-covers/image-"))
	requireEmptyDir(t, p.Dir)
}

func TestUploadDataURISuccess(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	uri := "data:image/jpeg;base64," + pngBase64(64)
	url, err := p.Upload(context.Background(), FromBase64(uri, ""))
	require.NoError(t, err)
	require.NotEmpty(t, url)
	requireEmptyDir(t, p.Dir)
}

func TestUploadMultipartSuccess(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="image"; filename="cover.png"`},
		"Content-Type":        {"image/png"},
	})
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x89}, 256))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	defer func() { _ = form.RemoveAll() }()
	fh := form.File["image"][0]

	url, err := p.Upload(context.Background(), FromMultipart(fh))
	require.NoError(t, err)
	require.NotEmpty(t, url)
	require.Len(t, store.uploads, 1)
	requireEmptyDir(t, p.Dir)
}

func TestUploadRejectsNonImageBeforeRemoteCall(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	_, err := p.Upload(context.Background(), FromBase64(pngBase64(32), "application/pdf"))
	require.ErrorIs(t, err, ErrUnsupportedMediaType)
	require.Empty(t, store.uploads, "remote store must not be reached")
	requireEmptyDir(t, p.Dir)
}

func TestUploadRejectsOversizePayload(t *testing.T) {
	store := &fakeStore{}
	p := NewPipeline(store, t.TempDir(), "book-covers", 64, nil)

	_, err := p.Upload(context.Background(), FromBase64(pngBase64(128), "image/png"))
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	require.Empty(t, store.uploads)
	requireEmptyDir(t, p.Dir)
}

func TestUploadRejectsCorruptBase64(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	_, err := p.Upload(context.Background(), FromBase64("!!!not-base64!!!", "image/png"))
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.Empty(t, store.uploads)
	requireEmptyDir(t, p.Dir)
}

func TestUploadRemoteFailureCleansUpStagedFile(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("bucket unavailable")}
	p := newTestPipeline(t, store)

	_, err := p.Upload(context.Background(), FromBase64(pngBase64(32), "image/png"))
	require.ErrorIs(t, err, ErrUploadFailed)
	requireEmptyDir(t, p.Dir)
}

func TestObjectPathFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"gcs no extension", "https://storage.googleapis.com/test-bucket/book-covers/image-1-2", "book-covers/image-1-2"},
		{"gcs with extension", "https://storage.googleapis.com/test-bucket/book-covers/image-1-2.jpg", "book-covers/image-1-2"},
		{"cloudinary style with version", "https://res.cloudinary.com/demo/v1712345/covers/abc123.png", "covers/abc123"},
		{"host only", "https://storage.googleapis.com", ""},
		{"bucket only", "https://storage.googleapis.com/test-bucket", ""},
		{"not a url", "://bad", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ObjectPathFromURL(tc.url))
		})
	}
}

func TestDeleteDerivesObjectPath(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	err := p.Delete(context.Background(), "https://storage.googleapis.com/test-bucket/book-covers/image-1-2")
	require.NoError(t, err)
	require.Equal(t, []string{"book-covers/image-1-2"}, store.deletes)
}

func TestDeleteUnderivableURLFails(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	err := p.Delete(context.Background(), "https://storage.googleapis.com")
	require.ErrorIs(t, err, ErrDeletionFailed)
	require.Empty(t, store.deletes)
}

func TestDeleteRemoteFailure(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New("object store down")}
	p := newTestPipeline(t, store)

	err := p.Delete(context.Background(), "https://storage.googleapis.com/test-bucket/book-covers/x")
	require.ErrorIs(t, err, ErrDeletionFailed)
}
