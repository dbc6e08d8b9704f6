package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mantenimiento/api/internal/metrics"
)

// GCSConfig describe el bucket de Google Cloud Storage.
type GCSConfig struct {
	Bucket      string
	Concurrency int
	Timeout     time.Duration
}

// GCSUploader implementa Uploader sobre Google Cloud Storage.
type GCSUploader struct {
	cfg    GCSConfig
	client *gcs.Client
}

// NewGCSUploader crea el cliente con las credenciales por defecto del entorno
// salvo que se informen opciones.
func NewGCSUploader(ctx context.Context, cfg GCSConfig, opts ...option.ClientOption) (*GCSUploader, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("storage: bucket obligatorio")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: cliente gcs: %w", err)
	}
	return &GCSUploader{cfg: cfg, client: client}, nil
}

// Close libera el cliente subyacente.
func (u *GCSUploader) Close() error {
	return u.client.Close()
}

func (u *GCSUploader) Upload(ctx context.Context, file File, folder string) (string, error) {
	url, err := u.upload(ctx, file, folder)
	metrics.StorageOps.WithLabelValues("upload", metrics.Result(err)).Inc()
	return url, err
}

func (u *GCSUploader) upload(ctx context.Context, file File, folder string) (string, error) {
	if len(file.Body) == 0 {
		return "", errors.New("storage: archivo vacío")
	}
	ctx, cancel := context.WithTimeout(ctx, u.cfg.Timeout)
	defer cancel()

	if err := u.ensureFolder(ctx, folder); err != nil {
		return "", err
	}

	name := ObjectName(folder, file.Name)
	w := u.client.Bucket(u.cfg.Bucket).Object(name).NewWriter(ctx)
	w.ContentType = file.ContentType
	if _, err := w.Write(file.Body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: cerrar %s: %w", name, err)
	}
	return PublicURL(u.cfg.Bucket, name), nil
}

// ensureFolder crea el objeto marcador `{folder}/` si todavía no existe.
func (u *GCSUploader) ensureFolder(ctx context.Context, folder string) error {
	marker := strings.Trim(folder, "/") + "/"
	obj := u.client.Bucket(u.cfg.Bucket).Object(marker)

	_, err := obj.Attrs(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("storage: consultar carpeta %s: %w", marker, err)
	}

	w := obj.If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	if err := w.Close(); err != nil {
		// Otra subida concurrente pudo crearla primero.
		if isPreconditionFailed(err) {
			return nil
		}
		return fmt.Errorf("storage: crear carpeta %s: %w", marker, err)
	}
	return nil
}

func (u *GCSUploader) UploadMany(ctx context.Context, files []File, folder string) ([]string, error) {
	return uploadMany(ctx, u.Upload, files, folder, u.cfg.Concurrency)
}

func (u *GCSUploader) Delete(ctx context.Context, objectPath string) (bool, error) {
	name := ObjectFromURL(u.cfg.Bucket, objectPath)
	err := u.client.Bucket(u.cfg.Bucket).Object(name).Delete(ctx)
	metrics.StorageOps.WithLabelValues("delete", metrics.Result(err)).Inc()
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: borrar %s: %w", name, err)
	}
	return true, nil
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}

var _ Uploader = (*GCSUploader)(nil)
