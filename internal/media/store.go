// Package media хранит загруженные файлы на локальном диске.
package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrInvalidPath = errors.New("media: invalid path")

// Store — хранилище файлов. Delete идемпотентен и ошибки только логирует.
type Store interface {
	Put(ctx context.Context, p string, data []byte) error
	Delete(ctx context.Context, p string)
	Exists(ctx context.Context, p string) bool
	URL(p string) string
}

type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("media: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("media: create root: %w", err)
	}
	return &LocalStore{root: abs, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Root() string { return s.root }

// resolve не даёт выйти за пределы корня.
func (s *LocalStore) resolve(p string) (string, error) {
	slashed := filepath.ToSlash(p)
	if p == "" || path.IsAbs(slashed) {
		return "", ErrInvalidPath
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *LocalStore) Put(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("media: mkdir %s: %w", dir, err)
	}

	// пишем во временный файл и переименовываем, чтобы не оставить обрезок
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("media: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("media: write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("media: close %s: %w", p, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		log.Warn().Err(err).Str("path", p).Msg("media chmod failed")
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("media: rename %s: %w", p, err)
	}
	return nil
}

func (s *LocalStore) Delete(ctx context.Context, p string) {
	if p == "" {
		return
	}
	full, err := s.resolve(p)
	if err != nil {
		log.Warn().Err(err).Str("path", p).Msg("media delete skipped")
		return
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error().Err(err).Str("path", p).Msg("media delete failed")
	}
}

func (s *LocalStore) Exists(ctx context.Context, p string) bool {
	full, err := s.resolve(p)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

func (s *LocalStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return s.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

func sanitizeFilename(name string) string {
	name = path.Base(filepath.ToSlash(name))
	if name == "." || name == "/" {
		name = "upload"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// NewPath строит уникальный путь вида dir/YYYYMMDD-uuid-имя.
func NewPath(dir, filename string) string {
	return fmt.Sprintf("%s/%s-%s-%s",
		strings.Trim(dir, "/"),
		time.Now().Format("20060102"),
		uuid.NewString(),
		sanitizeFilename(filename),
	)
}

// WithExt меняет расширение имени файла.
func WithExt(filename, ext string) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	if base == "" {
		base = "upload"
	}
	return base + ext
}
