package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"
)

const (
	maxParallelReads = 4
	mimeTypeZip      = "application/zip"
)

// Load reads the files at paths and sniffs their MIME types from content.
// The result keeps the order of paths. Nothing is filtered here; pass the
// result to Select for that.
func Load(ctx context.Context, paths []string) ([]File, error) {
	files := make([]File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)

	for idx, path := range paths {
		idx, path := idx, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := loadFile(path)
			if err != nil {
				return err
			}

			files[idx] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func loadFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %q: %w", path, err)
	}

	if info.IsDir() {
		return File{}, fmt.Errorf("%q is a directory", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %q: %w", path, err)
	}

	name := filepath.Base(path)

	return File{
		Name:     name,
		MIMEType: DetectMIMEType(name, content),
		Content:  content,
	}, nil
}

// DetectMIMEType sniffs the MIME type of content. A .docx file that only
// sniffs as a generic zip archive is reported as DOCX.
func DetectMIMEType(name string, content []byte) string {
	detected := mimetype.Detect(content)

	switch {
	case detected.Is(MIMETypePDF):
		return MIMETypePDF
	case detected.Is(MIMETypeDOCX):
		return MIMETypeDOCX
	case detected.Is(mimeTypeZip) && strings.EqualFold(filepath.Ext(name), ".docx"):
		return MIMETypeDOCX
	}

	mediaType, _, _ := strings.Cut(detected.String(), ";")
	return strings.TrimSpace(mediaType)
}
