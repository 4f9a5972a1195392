// Package media is the filesystem blob store for uploaded photos and icons.
// Files are grouped into per-kind subdirectories and named after the owning
// row's id plus a creation timestamp, so a stored name never collides and is
// always traceable back to its entity. Database rows and file writes are not
// transactional with each other; keeping every write behind Store confines
// that gap to this package.
package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind selects the subdirectory a file is stored under.
type Kind string

const (
	KindIcon  Kind = "icon"
	KindSpot  Kind = "spot"
	KindReply Kind = "reply"
	KindGroup Kind = "group"
)

const nameTimestamp = "20060102_150405"

// Store writes uploads below a single root directory.
type Store struct {
	root   string
	mirror Mirror
	logger *zap.Logger
}

// Mirror receives a best-effort copy of every stored file. Implementations
// must never block a request on failure.
type Mirror interface {
	Put(objectKey string, payload []byte, contentType string) error
}

// NewStore creates the root directory if absent.
func NewStore(root string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// WithMirror attaches an optional secondary destination (e.g. S3).
func (s *Store) WithMirror(m Mirror) *Store {
	s.mirror = m
	return s
}

// Root returns the upload root directory, for static file serving.
func (s *Store) Root() string { return s.root }

// BuildName derives the stored filename for an upload: the entity kind and
// id, a timestamp, and the sanitized extension of the client's filename.
// The client's own name never reaches disk.
func BuildName(prefix, entityID, original string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s%s", prefix, entityID, now.Format(nameTimestamp), safeExt(original))
}

// TempName generates a placeholder name used before the owning row's id is
// known (user icons at registration).
func TempName(original string) string {
	return "tmp_" + strings.ReplaceAll(uuid.NewString(), "-", "") + safeExt(original)
}

// Save streams an uploaded file into the kind's subdirectory under the given
// stored name, creating the subdirectory on demand.
func (s *Store) Save(kind Kind, name string, fh *multipart.FileHeader) error {
	name = SafeName(name)
	if name == "" {
		return fmt.Errorf("invalid stored filename")
	}

	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dir := filepath.Join(s.root, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s dir: %w", kind, err)
	}

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	s.mirrorFile(kind, name)
	return nil
}

// Rename moves a previously saved file to its final name within the same
// kind. On failure the source file is removed so no orphan temp remains.
func (s *Store) Rename(kind Kind, from, to string) error {
	from = SafeName(from)
	if from == "" {
		return fmt.Errorf("invalid stored filename")
	}

	dir := filepath.Join(s.root, string(kind))
	if to = SafeName(to); to == "" {
		_ = os.Remove(filepath.Join(dir, from))
		return fmt.Errorf("invalid stored filename")
	}
	if err := os.Rename(filepath.Join(dir, from), filepath.Join(dir, to)); err != nil {
		_ = os.Remove(filepath.Join(dir, from))
		return fmt.Errorf("rename upload: %w", err)
	}

	s.mirrorFile(kind, to)
	return nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *Store) Remove(kind Kind, name string) error {
	name = SafeName(name)
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, string(kind), name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Exists reports whether a stored file is present on disk.
func (s *Store) Exists(kind Kind, name string) bool {
	name = SafeName(name)
	if name == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(s.root, string(kind), name))
	return err == nil
}

// URL resolves a stored name to its servable path.
func URL(kind Kind, name string) string {
	return "/uploads/" + string(kind) + "/" + name
}

func (s *Store) mirrorFile(kind Kind, name string) {
	if s.mirror == nil {
		return
	}
	payload, err := os.ReadFile(filepath.Join(s.root, string(kind), name))
	if err != nil {
		s.log("media mirror read failed", kind, name, err)
		return
	}
	key := string(kind) + "/" + name
	if err := s.mirror.Put(key, payload, contentTypeFor(name)); err != nil {
		s.log("media mirror upload failed", kind, name, err)
	}
}

func (s *Store) log(msg string, kind Kind, name string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg,
		zap.String("kind", string(kind)),
		zap.String("name", name),
		zap.Error(err),
	)
}

// SafeName strips any path components and rejects names with characters
// outside [A-Za-z0-9._-].
func SafeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	if strings.HasPrefix(name, ".") || !isSafeSegment(name) {
		return ""
	}
	return name
}

// safeExt extracts a usable lowercase extension from a client filename,
// falling back to .dat for missing or suspicious ones.
func safeExt(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(strings.TrimSpace(original))))
	if ext == "" || ext == "." || len(ext) > 10 || !isSafeSegment(ext[1:]) {
		return ".dat"
	}
	return ext
}

func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
