// Package upload sube archivos (imágenes de producto, fotos de perfil) al almacenamiento de objetos.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/pkg/logger"
)

// KeyPrefix carpeta del bucket donde se guardan los archivos subidos.
const KeyPrefix = "productos/"

// ErrStorageNotConfigured el servidor no tiene bucket configurado.
var ErrStorageNotConfigured = errors.New("almacenamiento de archivos no configurado")

// BlobStore almacenamiento de objetos. Put devuelve la URL pública del objeto.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// File archivo recibido en el formulario multipart.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadUseCase caso de uso de subida.
type UploadUseCase struct {
	store    BlobStore
	maxBytes int64
	log      *logger.Logger
	now      func() time.Time
}

// NewUploadUseCase construye el caso de uso. store nil deja la subida deshabilitada (ErrStorageNotConfigured).
func NewUploadUseCase(store BlobStore, maxBytes int64, log *logger.Logger) *UploadUseCase {
	return &UploadUseCase{store: store, maxBytes: maxBytes, log: log, now: time.Now}
}

// Upload valida el archivo, genera la clave productos/<unix-ms>-<nombre> y lo sube.
func (uc *UploadUseCase) Upload(ctx context.Context, f *File) (*dto.UploadResponse, error) {
	if f == nil || f.Body == nil || strings.TrimSpace(f.Name) == "" {
		return nil, fmt.Errorf("%w: no se proporcionó archivo", domain.ErrMissingRequiredField)
	}
	if f.Size <= 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if uc.maxBytes > 0 && f.Size > uc.maxBytes {
		return nil, fmt.Errorf("%w: el archivo supera el máximo de %d bytes", domain.ErrInvalidInput, uc.maxBytes)
	}
	if uc.store == nil {
		return nil, ErrStorageNotConfigured
	}

	key := ObjectKey(f.Name, uc.now())
	url, err := uc.store.Put(ctx, key, f.ContentType, f.Body, f.Size)
	if err != nil {
		uc.log.Error().Err(err).Str("key", key).Int64("size", f.Size).Msg("error subiendo archivo")
		return nil, fmt.Errorf("subir archivo: %w", err)
	}
	uc.log.Info().Str("key", key).Int64("size", f.Size).Msg("archivo subido")
	return &dto.UploadResponse{
		URL:      url,
		Filename: f.Name,
		Size:     f.Size,
		Type:     f.ContentType,
	}, nil
}

// ObjectKey clave del objeto: prefijo, milisegundos Unix y nombre saneado.
func ObjectKey(name string, at time.Time) string {
	return fmt.Sprintf("%s%d-%s", KeyPrefix, at.UnixMilli(), SanitizeFilename(name))
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeFilename quita tildes y reemplaza todo lo que no sea [a-zA-Z0-9.-] por "_".
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, strings.TrimSpace(name))
	if err != nil {
		plain = name
	}
	return unsafeChars.ReplaceAllString(plain, "_")
}
