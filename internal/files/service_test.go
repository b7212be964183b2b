package files

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[string]*File
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*File{}}
}

func (f *fakeRepo) Get(_ context.Context, id string) (*File, error) {
	file, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *file
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, quotationID, category string) ([]File, error) {
	var out []File
	for _, file := range f.byID {
		if file.QuotationID != quotationID {
			continue
		}
		if category != "" && file.Category != category {
			continue
		}
		out = append(out, *file)
	}
	return out, nil
}

func (f *fakeRepo) FindByCategory(_ context.Context, quotationID, category string) (*File, error) {
	for _, file := range f.byID {
		if file.QuotationID == quotationID && file.Category == category {
			cp := *file
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Create(_ context.Context, file File) error {
	f.byID[file.ID] = &file
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	storage, err := NewStorage(t.TempDir())
	require.NoError(t, err)
	return NewService(newFakeRepo(), storage)
}

func TestUploadAndDownloadRoundTrip(t *testing.T) {
	svc := newTestService(t)

	f, err := svc.Upload(context.Background(), "q-1", CategoryImages,
		"machine.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), f.Size)
	assert.NotEqual(t, "machine.png", f.StoredName, "original name never hits the filesystem")

	got, rc, err := svc.Open(context.Background(), f.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "machine.png", got.Name)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(body))
}

func TestUploadRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "q-1", "misc",
		"notes.txt", "text/plain", strings.NewReader("x"))
	require.Error(t, err)
}

func TestEditedPDFReplacesPrevious(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Upload(context.Background(), "q-1", CategoryEditedPDF,
		"quote-v1.pdf", "application/pdf", strings.NewReader("v1"))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "q-1", CategoryEditedPDF,
		"quote-v2.pdf", "application/pdf", strings.NewReader("v2"))
	require.NoError(t, err)

	_, _, err = svc.Open(context.Background(), first.ID)
	require.ErrorIs(t, err, ErrNotFound, "first upload is gone after replacement")

	f, rc, err := svc.EditedPDF(context.Background(), "q-1")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "quote-v2.pdf", f.Name)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(body))
}

func TestDeleteRemovesBytes(t *testing.T) {
	svc := newTestService(t)

	f, err := svc.Upload(context.Background(), "q-1", CategoryReceivedQuotes,
		"vendor.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), f.ID))

	_, _, err = svc.Open(context.Background(), f.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
