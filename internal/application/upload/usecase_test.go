package upload_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/application/upload"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/pkg/logger"
)

type fakeStore struct {
	key         string
	contentType string
	body        string
	err         error
}

func (s *fakeStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	b, _ := io.ReadAll(body)
	s.key, s.contentType, s.body = key, contentType, string(b)
	return "https://cdn.example.com/" + key, nil
}

func file(name, content string) *upload.File {
	return &upload.File{Name: name, ContentType: "image/png", Size: int64(len(content)), Body: strings.NewReader(content)}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"foto.png", "foto.png"},
		{"Jeringa Estéril 5ml.jpg", "Jeringa_Esteril_5ml.jpg"},
		{"niño (1).png", "nino__1_.png"},
		{"a/b\\c.png", "a_b_c.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, upload.SanitizeFilename(tt.in), tt.in)
	}
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1735689600123)
	assert.Equal(t, "productos/1735689600123-Gasa_esteril.png", upload.ObjectKey("Gasa estéril.png", at))
}

func TestUpload_OK(t *testing.T) {
	store := &fakeStore{}
	uc := upload.NewUploadUseCase(store, 1024, logger.NewNop())

	out, err := uc.Upload(context.Background(), file("Catálogo.png", "PNGDATA"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(store.key, "productos/"))
	assert.True(t, strings.HasSuffix(store.key, "-Catalogo.png"))
	assert.Equal(t, "PNGDATA", store.body)
	assert.Equal(t, "https://cdn.example.com/"+store.key, out.URL)
	assert.Equal(t, "Catálogo.png", out.Filename)
	assert.Equal(t, int64(7), out.Size)
	assert.Equal(t, "image/png", out.Type)
}

func TestUpload_Errores(t *testing.T) {
	ctx := context.Background()
	uc := upload.NewUploadUseCase(&fakeStore{}, 4, logger.NewNop())

	_, err := uc.Upload(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	_, err = uc.Upload(ctx, file("a.png", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Upload(ctx, file("a.png", "demasiado"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	disabled := upload.NewUploadUseCase(nil, 0, logger.NewNop())
	_, err = disabled.Upload(ctx, file("a.png", "x"))
	assert.ErrorIs(t, err, upload.ErrStorageNotConfigured)

	boom := errors.New("s3 caído")
	failing := upload.NewUploadUseCase(&fakeStore{err: boom}, 0, logger.NewNop())
	_, err = failing.Upload(ctx, file("a.png", "x"))
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsValidation(err))
}
