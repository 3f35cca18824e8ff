package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"

	profileout "prapp/internal/modules/profile/port/out"
	apperrors "prapp/internal/platform/errors"
)

// LocalDocumentReader reads CVs and briefs. PDFs are text-extracted page by
// page; everything else is read as UTF-8 text.
type LocalDocumentReader struct{}

func NewLocalDocumentReader() profileout.DocumentReader {
	return &LocalDocumentReader{}
}

func (r *LocalDocumentReader) ReadText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return r.readPDF(ctx, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(b), nil
}

func (r *LocalDocumentReader) readPDF(ctx context.Context, path string) (string, error) {
	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		parts := []string{}
		for _, text := range p.Content().Text {
			if strings.TrimSpace(text.S) == "" {
				continue
			}
			parts = append(parts, text.S)
		}
		if len(parts) > 0 {
			pages = append(pages, strings.Join(parts, " "))
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
