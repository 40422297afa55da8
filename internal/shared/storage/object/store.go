package object

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"resume-builder/internal/shared/util"
)

// ErrNotFound is returned by Open when nothing is stored under the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// ExportKey is the storage key of an archived export. One key per resume
// revision, so re-exporting an unchanged resume overwrites in place.
func ExportKey(userID, resumeID string, revision int64, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", err
	}
	rid, err := util.SanitizeFileName(resumeID)
	if err != nil {
		return "", err
	}
	return path.Join("exports", util.OwnerKey(userID), rid, fmt.Sprintf("%d_%s", revision, name)), nil
}

// DownloadName recovers the file name from a key built by ExportKey.
func DownloadName(storageKey string) string {
	base := path.Base(storageKey)
	if rev, name, ok := strings.Cut(base, "_"); ok && rev != "" && strings.Trim(rev, "0123456789") == "" {
		return name
	}
	return base
}
