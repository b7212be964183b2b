package files

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/quotedesk/quotedesk/internal/platform/httpx"
)

type Service struct {
	repo    Repository
	storage *Storage
}

func NewService(repo Repository, storage *Storage) *Service {
	return &Service{repo: repo, storage: storage}
}

func (s *Service) List(ctx context.Context, quotationID, category string) ([]File, error) {
	if category != "" && !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown file category %q", httpx.ErrValidation, category)
	}
	return s.repo.List(ctx, quotationID, category)
}

// Upload stores the bytes and records the metadata. An edited-PDF
// upload replaces any previous one so the quotation has at most one
// document override.
func (s *Service) Upload(ctx context.Context, quotationID, category, name, contentType string, src io.Reader) (*File, error) {
	if !ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown file category %q", httpx.ErrValidation, category)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: file name is required", httpx.ErrValidation)
	}

	if category == CategoryEditedPDF {
		if prev, err := s.repo.FindByCategory(ctx, quotationID, category); err == nil {
			if err := s.Delete(ctx, prev.ID); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	f := File{
		ID:          uuid.NewString(),
		QuotationID: quotationID,
		Category:    category,
		Name:        name,
		StoredName:  uuid.NewString(),
		ContentType: contentType,
	}

	size, err := s.storage.Save(quotationID, f.StoredName, src)
	if err != nil {
		return nil, err
	}
	f.Size = size

	if err := s.repo.Create(ctx, f); err != nil {
		_ = s.storage.Remove(quotationID, f.StoredName)
		return nil, fmt.Errorf("record file: %w", err)
	}
	return &f, nil
}

// Open returns the file metadata and a reader over its bytes. The
// caller closes the reader.
func (s *Service) Open(ctx context.Context, id string) (*File, io.ReadCloser, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(f.QuotationID, f.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.storage.Remove(f.QuotationID, f.StoredName)
}

// EditedPDF returns the uploaded document override for a quotation,
// if one exists.
func (s *Service) EditedPDF(ctx context.Context, quotationID string) (*File, io.ReadCloser, error) {
	f, err := s.repo.FindByCategory(ctx, quotationID, CategoryEditedPDF)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(f.QuotationID, f.StoredName)
	if err != nil {
		return nil, nil, err
	}
	return f, rc, nil
}
