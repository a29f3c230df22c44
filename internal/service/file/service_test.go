package file

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\x0D\x0A\x1A\x0A" + "rest-of-image")

func newTestFileService(t *testing.T) (FileService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	return NewFileService(store), store
}

func TestUploadVisitorPhoto_StoresImage(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestFileService(t)

	uploaded, err := svc.UploadVisitorPhoto(ctx, bytes.NewReader(pngHeader), "me.jpg")
	require.NoError(t, err)

	// Extension follows the content, not the client filename
	assert.True(t, strings.HasPrefix(uploaded.Path, "visitors/"))
	assert.True(t, strings.HasSuffix(uploaded.Path, ".png"))
	assert.Equal(t, "/uploads/"+uploaded.Path, uploaded.URL)

	exists, err := store.Exists(ctx, uploaded.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, svc.DeleteFile(ctx, uploaded.Path))
	exists, err = store.Exists(ctx, uploaded.Path)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUploadVisitorPhoto_RejectsNonImage(t *testing.T) {
	svc, _ := newTestFileService(t)

	_, err := svc.UploadVisitorPhoto(context.Background(), strings.NewReader("plain text pretending"), "photo.png")
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestUploadVisitorPhoto_RejectsOversized(t *testing.T) {
	svc, _ := newTestFileService(t)

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxPhotoSize)...)
	_, err := svc.UploadVisitorPhoto(context.Background(), bytes.NewReader(big), "big.png")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
