package files

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// fileTypes maps the accepted image mime types to their stored extension.
var fileTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

// Store writes uploaded images to a local directory served under
// /public/uploads and hands back their public URL.
type Store struct {
	Dir     string
	BaseURL string
}

func NewStore(dir, publicURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("files: create upload dir: %w", err)
	}
	return &Store{
		Dir:     dir,
		BaseURL: strings.TrimRight(publicURL, "/") + "/public/uploads/",
	}, nil
}

func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext, ok := fileTypes[fh.Header.Get("Content-Type")]
	if !ok {
		return "", fmt.Errorf("files: invalid image type %q", fh.Header.Get("Content-Type"))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("files: open upload: %w", err)
	}
	defer src.Close()

	base := strings.Join(strings.Fields(strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))), "-")
	name := fmt.Sprintf("%s-%s.%s", base, uuid.NewString(), ext)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("files: create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("files: write file: %w", err)
	}

	return s.BaseURL + name, nil
}
