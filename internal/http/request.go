package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mantenimiento/api/internal/storage"
	"github.com/mantenimiento/api/internal/util"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartForm = 32 << 20
	maxAttachment    = 10 << 20
)

// multipartMemory es lo que ParseMultipartForm retiene en memoria; el resto
// va a archivos temporales que el handler debe borrar.
var multipartMemory int64 = 8 << 20

// Los textos libres se guardan sin HTML.
var strict = bluemonday.StrictPolicy()

func clean(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

func cleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := clean(*s)
	return &v
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := util.ParseID(strings.TrimSpace(chi.URLParam(r, name)))
	if !ok {
		WriteError(w, http.StatusBadRequest, "VALIDATION", name+" inválido", nil)
	}
	return id, ok
}

func parseISODate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("vacía")
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %s", value)
}

func optionalDate(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	ts, err := parseISODate(*value)
	if err != nil {
		return nil, fmt.Errorf("%s inválida", field)
	}
	return &ts, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// formValue devuelve nil si el campo no vino en el form.
func formValue(form *multipart.Form, field string) *string {
	if form == nil {
		return nil
	}
	values, ok := form.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func readFiles(form *multipart.Form, field string) ([]storage.File, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	files := make([]storage.File, 0, len(headers))
	for _, h := range headers {
		data, contentType, err := readMultipartFile(h, maxAttachment)
		if err != nil {
			return nil, err
		}
		files = append(files, storage.File{Name: h.Filename, ContentType: contentType, Body: data})
	}
	return files, nil
}

func readMultipartFile(header *multipart.FileHeader, limit int64) ([]byte, string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("no se pudo abrir %s: %w", header.Filename, err)
	}
	defer file.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(file, limit)); err != nil {
		return nil, "", fmt.Errorf("no se pudo leer %s: %w", header.Filename, err)
	}
	if int64(buf.Len()) >= limit {
		return nil, "", fmt.Errorf("%s excede %d bytes", header.Filename, limit)
	}

	contentType := header.Header.Get("Content-Type")
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}
	return buf.Bytes(), contentType, nil
}
