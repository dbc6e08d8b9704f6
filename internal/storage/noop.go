package storage

import (
	"context"

	"github.com/mantenimiento/api/internal/apperr"
)

// NoopUploader se usa cuando no hay bucket configurado: toda operación falla
// con error de configuración.
type NoopUploader struct{}

func (NoopUploader) Upload(ctx context.Context, file File, folder string) (string, error) {
	return "", errNotConfigured()
}

func (NoopUploader) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
	return nil, errNotConfigured()
}

func (NoopUploader) Delete(ctx context.Context, objectPath string) (bool, error) {
	return false, errNotConfigured()
}

func errNotConfigured() error {
	return apperr.Configuration("Bucket de almacenamiento no configurado (GOOGLE_CLOUD_BUCKET_NAME)")
}
