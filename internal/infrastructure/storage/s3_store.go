// Package storage adaptador de almacenamiento de objetos compatible con S3 (AWS, MinIO, R2, Supabase Storage).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/protrack/protrack-api/internal/application/upload"
	"github.com/protrack/protrack-api/pkg/config"
)

var _ upload.BlobStore = (*S3Store)(nil)

// PutObjectAPI subconjunto del cliente S3 que usa el store (permite fakes en tests).
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store sube objetos a un bucket y arma su URL pública.
type S3Store struct {
	client  PutObjectAPI
	bucket  string
	baseURL string
}

// NewS3Store construye el cliente S3. Con Endpoint configurado usa path-style (MinIO/LocalStack).
// Sin AccessKey toma las credenciales de la cadena por defecto del SDK (env, perfil, rol IAM).
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración aws: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg), nil
}

// NewS3StoreWithClient arma el store sobre un cliente ya construido.
func NewS3StoreWithClient(client PutObjectAPI, cfg config.StorageConfig) *S3Store {
	return &S3Store{client: client, bucket: cfg.Bucket, baseURL: PublicBaseURL(cfg)}
}

// Put sube el objeto y devuelve su URL pública.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.baseURL + "/" + escapeKey(key), nil
}

// PublicBaseURL prefijo de las URLs públicas: STORAGE_PUBLIC_BASE_URL, el endpoint con el bucket
// (path-style) o el host virtual de AWS.
func PublicBaseURL(cfg config.StorageConfig) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
