package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-franchise-api/internal/application/apptest"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUpload_ImagenYPDF(t *testing.T) {
	files := apptest.NewFiles()
	uc := NewUploadUseCase(files, 1, logger.Nop())

	res, err := uc.Upload(context.Background(), "../../foto.PNG", int64(len(pngHeader)), bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasSuffix(res.Name, ".png"))
	assert.Equal(t, "foto.PNG", res.OriginalName)
	assert.Equal(t, "/api/uploads/"+res.Name, res.URL)
	assert.Equal(t, pngHeader, files.Saved[res.Name])

	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj")
	res, err = uc.Upload(context.Background(), "examen.pdf", int64(len(pdf)), bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.ContentType)

	path, err := uc.Path(res.Name)
	require.NoError(t, err)
	assert.Contains(t, path, res.Name)
}

func TestUpload_Rechazos(t *testing.T) {
	files := apptest.NewFiles()
	uc := NewUploadUseCase(files, 1, logger.Nop())
	ctx := context.Background()

	_, err := uc.Upload(ctx, "script.sh", 20, strings.NewReader("#!/bin/sh\necho hola\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "texto plano no es imagen ni pdf")

	_, err = uc.Upload(ctx, "vacio.png", 0, strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, "grande.png", 2<<20, bytes.NewReader(pngHeader))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tamaño declarado")

	big := append(append([]byte{}, pngHeader...), make([]byte, 1<<20)...)
	_, err = uc.Upload(ctx, "mentiroso.png", 100, bytes.NewReader(big))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tamaño real")
	assert.Empty(t, files.Saved, "el archivo excedido se borra")
}
