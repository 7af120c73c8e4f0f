package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/domain"
)

func TestLocalStore_SaveYPath(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	n, err := s.Save(context.Background(), "foto.png", strings.NewReader("contenido"))
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)

	p, err := s.Path("foto.png")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "contenido", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no deben quedar temporales")
}

func TestLocalStore_RechazaRutas(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "../etc/passwd", "a/b.png", `a\b.png`} {
		_, err := s.Path(name)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
		_, err = s.Save(context.Background(), name, strings.NewReader("x"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestLocalStore_PathInexistente(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	_, err = s.Path("nada.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	_, err = s.Path("sub")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_Remove(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "doc.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	require.NoError(t, s.Remove("doc.pdf"))
	require.NoError(t, s.Remove("doc.pdf"))

	_, err = s.Path("doc.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
