package storage

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// File es un adjunto recibido del cliente.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// Uploader define el comportamiento del almacenamiento de objetos.
type Uploader interface {
	// Upload guarda el archivo bajo folder y devuelve su URL pública.
	Upload(ctx context.Context, file File, folder string) (string, error)
	// UploadMany devuelve las URLs en el mismo orden que files. Si falla,
	// devuelve también las URLs ya subidas para poder borrarlas.
	UploadMany(ctx context.Context, files []File, folder string) ([]string, error)
	// Delete informa false si el objeto no existía.
	Delete(ctx context.Context, objectPath string) (bool, error)
}

// ObjectName arma el nombre `{folder}/{uuid}.{ext}` conservando la extensión original.
func ObjectName(folder, filename string) string {
	folder = strings.Trim(folder, "/")
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), ext)
}

// PublicURL devuelve la URL estable de un objeto del bucket.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// ObjectFromURL acepta una URL pública o un nombre de objeto y devuelve el nombre.
func ObjectFromURL(bucket, ref string) string {
	prefix := fmt.Sprintf("https://storage.googleapis.com/%s/", bucket)
	return strings.TrimPrefix(strings.TrimPrefix(ref, prefix), "/")
}

type uploadFunc func(ctx context.Context, file File, folder string) (string, error)

// uploadMany sube en paralelo con a lo sumo limit subidas simultáneas.
// Ante el primer error cancela el resto y devuelve, junto al error, las URLs
// de los archivos que sí se subieron.
func uploadMany(ctx context.Context, upload uploadFunc, files []File, folder string, limit int) ([]string, error) {
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			url, err := upload(gctx, f, folder)
			if err != nil {
				return fmt.Errorf("subir %s: %w", f.Name, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		done := make([]string, 0, len(urls))
		for _, url := range urls {
			if url != "" {
				done = append(done, url)
			}
		}
		return done, err
	}
	return urls, nil
}
