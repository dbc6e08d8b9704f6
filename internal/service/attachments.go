package service

import (
	"context"
	"fmt"

	"github.com/mantenimiento/api/internal/storage"
)

// uploaded acumula las URLs subidas en una operación para poder compensarlas.
type uploaded struct {
	urls []string
}

func (u *uploaded) one(ctx context.Context, up storage.Uploader, file storage.File, folder string) (string, error) {
	url, err := up.Upload(ctx, file, folder)
	if err != nil {
		return "", providerErr("upload", err)
	}
	u.urls = append(u.urls, url)
	return url, nil
}

func (u *uploaded) many(ctx context.Context, up storage.Uploader, files []storage.File, folder string) ([]string, error) {
	urls, err := up.UploadMany(ctx, files, folder)
	for _, url := range urls {
		if url != "" {
			u.urls = append(u.urls, url)
		}
	}
	if err != nil {
		return nil, providerErr("upload_many", err)
	}
	return urls, nil
}

func attachmentFolder(entity string, id int64, kind string) string {
	return fmt.Sprintf("%s/%d/%s", entity, id, kind)
}
