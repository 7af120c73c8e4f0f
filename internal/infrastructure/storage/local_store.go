// Package storage almacenamiento de archivos subidos en disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/clinic-franchise-api/internal/application/ports"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

var _ ports.FileStore = (*LocalStore)(nil)

// LocalStore guarda archivos planos en un único directorio (sin subcarpetas).
type LocalStore struct {
	dir string
}

// NewLocalStore crea el directorio si no existe.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolver %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear %s: %w", abs, err)
	}
	return &LocalStore{dir: abs}, nil
}

// resolve rechaza nombres con separadores o que apunten fuera del directorio.
func (s *LocalStore) resolve(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", fmt.Errorf("%w: nombre de archivo inválido", domain.ErrInvalidInput)
	}
	return filepath.Join(s.dir, name), nil
}

// Save escribe en un temporal y lo renombra al final, así nunca queda un archivo a medias.
func (s *LocalStore) Save(ctx context.Context, name string, src io.Reader) (int64, error) {
	dst, err := s.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage: crear temporal: %w", err)
	}
	n, err := io.Copy(tmp, src)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("storage: mover %s: %w", name, err)
	}
	return n, nil
}

func (s *LocalStore) Path(name string) (string, error) {
	p, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage: stat %s: %w", name, err)
	}
	return p, nil
}

// Remove borra el archivo; no existir no es error.
func (s *LocalStore) Remove(name string) error {
	p, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", name, err)
	}
	return nil
}
