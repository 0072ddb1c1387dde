// Package storage keeps uploaded post images outside the database.
//
// The database stores only the key an ImageStore returned; URL turns a key
// back into something a browser can fetch. Two backends exist: LocalStore
// (a directory served under /media/) and S3Store (an S3 bucket).
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/xid"
)

// ErrInvalidKey is returned for keys that would escape the store.
var ErrInvalidKey = errors.New("storage: invalid key")

// Upload is an already-validated image ready to be persisted.
type Upload struct {
	Filename    string // name the client sent; informational only
	ContentType string // sniffed MIME type, e.g. "image/gif"
	Extension   string // sniffed extension including the dot, e.g. ".gif"
	Data        []byte
}

// ImageStore persists uploads and resolves their public URLs.
type ImageStore interface {
	Save(ctx context.Context, folder string, upload Upload) (key string, err error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// newKey builds "<folder>/<xid><ext>". Client filenames never reach the key.
func newKey(folder, ext string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), xid.New().String(), ext)
}

// validKey rejects absolute keys and any ".." segment.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
