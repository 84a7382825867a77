// Package bundle manages the local JSON-FG schema store: a directory tree
// populated by downloading and extracting the published schema archive.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/jsonfg-validator/internal/fetch"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultURL is the published JSON-FG schema bundle archive.
	DefaultURL = "https://beta.schemas.opengis.net/json-fg/json-fg-0_1_1.zip"

	// SchemaVersion pins the bundle layout inside the store.
	SchemaVersion = "0.1.1"
)

var (
	// ErrNotCached means the schema store has not been synchronized yet.
	ErrNotCached = errors.New("JSON FG schemas missing, run 'jsonfg-bundle sync' to cache")

	// ErrUnknownType means a type tag has no schema associated with it.
	ErrUnknownType = errors.New("unrecognized document type")
)

// DefaultDir returns the per-user schema store location.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jsonfg-validator"), nil
}

// Store resolves authoritative schemas from a local directory tree.
// It only ever reads the tree; Sync populates it.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Resolve maps a document type tag to the schema file caching it locally.
// Returns ErrUnknownType for unrecognized tags and ErrNotCached when the
// store has no copy of the schema.
func (s *Store) Resolve(typeTag string) (string, error) {
	var name string
	switch typeTag {
	case "Feature":
		name = "feature.json"
	case "FeatureCollection":
		name = "featurecollection.json"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typeTag)
	}

	path := filepath.Join(s.dir, "json-fg", SchemaVersion, name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w (%s)", ErrNotCached, path)
	}

	return path, nil
}

// Sync downloads the schema bundle archive and extracts it into dir,
// replacing any previous contents.
func Sync(client *http.Client, url, dir string) error {
	log.Debug().Str("url", url).Str("dir", dir).Msg("Caching schemas")

	resp, err := fetch.Get(client, url)
	if err != nil {
		return fmt.Errorf("downloading schema bundle: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading schema bundle: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return fmt.Errorf("opening schema bundle archive: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	for _, f := range zr.File {
		if err := extractFile(dir, f); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	log.Info().Int("files", len(zr.File)).Str("dir", dir).Msg("Schema bundle cached")
	return nil
}

// extractFile writes one archive entry under dir, rejecting paths that
// would escape it.
func extractFile(dir string, f *zip.File) error {
	rel := filepath.Clean(f.Name)
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("unsafe path %q in archive", f.Name)
	}
	dest := filepath.Join(dir, rel)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, src); err != nil { // #nosec G110
		_ = out.Close()
		return err
	}

	return out.Close()
}
