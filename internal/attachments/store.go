// Package attachments persists uploaded files on local disk and exposes
// them as publicly resolvable URLs. Images land under pictures/, videos
// under videos/; anything else is rejected before touching the disk.
package attachments

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"chatwire/internal/chaterr"
)

const (
	picturesDir = "pictures"
	videosDir   = "videos"
)

type Store struct {
	root    string
	baseURL string
}

func NewStore(root, baseURL string) *Store {
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Save sniffs the upload's content type, classifies it as image or
// video, writes it under the matching directory and returns the URL it
// resolves under. The stored name is prefixed with the ingestion unix
// timestamp to avoid collisions between equally named uploads.
func (s *Store) Save(file io.ReadSeeker, filename string) (string, error) {
	mime, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}

	var dir string
	switch {
	case strings.HasPrefix(mime.String(), "image/"):
		dir = picturesDir
	case strings.HasPrefix(mime.String(), "video/"):
		dir = videosDir
	default:
		return "", chaterr.ErrUnsupportedMedia
	}

	// DetectReader consumed the head of the upload.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", fmt.Errorf("create %s directory: %w", dir, err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().Unix(), filepath.Base(filename))
	dst, err := os.Create(filepath.Join(s.root, dir, name))
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, dir, name), nil
}
