package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Uploads persists portal attachments and company logos on the local
// filesystem. Names are prefixed with a millisecond timestamp; two writes of
// the same filename within the same millisecond overwrite each other, which
// is an accepted limitation of this store.
type Uploads struct {
	dir string
}

func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Uploads{dir: dir}, nil
}

// Save writes r to disk and returns the public path ("/uploads/<name>")
// recorded on the owning row.
func (u *Uploads) Save(originalFilename string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), filepath.Base(originalFilename))

	f, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return "/uploads/" + name, nil
}
