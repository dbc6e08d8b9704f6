package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/repo/repotest"
	"github.com/mantenimiento/api/internal/storage"
)

func newMemStore() *repotest.Store { return repotest.New() }

type stubProvider struct {
	tokens   map[string]identity.Identity
	accounts map[string]string // email -> subject
	next     int

	failCreate error
	failUpdate error
	failDelete error
	failLookup error

	created []string
	updated []string
	deleted []string
}

func newStubProvider() *stubProvider {
	return &stubProvider{tokens: map[string]identity.Identity{}, accounts: map[string]string{}}
}

func (p *stubProvider) VerifyToken(ctx context.Context, token string) (identity.Identity, error) {
	id, ok := p.tokens[token]
	if !ok {
		return identity.Identity{}, identity.ErrInvalidToken
	}
	return id, nil
}

func (p *stubProvider) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	if p.failCreate != nil {
		return "", p.failCreate
	}
	if _, ok := p.accounts[email]; ok {
		return "", identity.ErrEmailExists
	}
	p.next++
	subject := fmt.Sprintf("uid-%d", p.next)
	p.accounts[email] = subject
	p.created = append(p.created, subject)
	return subject, nil
}

func (p *stubProvider) UpdateIdentity(ctx context.Context, subject string, email, password *string) error {
	if p.failUpdate != nil {
		return p.failUpdate
	}
	p.updated = append(p.updated, subject)
	if email != nil {
		for e, s := range p.accounts {
			if s == subject {
				delete(p.accounts, e)
			}
		}
		p.accounts[*email] = subject
	}
	return nil
}

func (p *stubProvider) DeleteIdentity(ctx context.Context, subject string) error {
	if p.failDelete != nil {
		return p.failDelete
	}
	p.deleted = append(p.deleted, subject)
	for e, s := range p.accounts {
		if s == subject {
			delete(p.accounts, e)
		}
	}
	return nil
}

func (p *stubProvider) LookupByEmail(ctx context.Context, email string) (string, error) {
	if p.failLookup != nil {
		return "", p.failLookup
	}
	subject, ok := p.accounts[email]
	if !ok {
		return "", identity.ErrNotFound
	}
	return subject, nil
}

type stubUploader struct {
	calls  []string
	fail   error
	failOn string // nombre de archivo que falla
	counts int
}

func (u *stubUploader) Upload(ctx context.Context, file storage.File, folder string) (string, error) {
	u.calls = append(u.calls, folder)
	if u.fail != nil {
		return "", u.fail
	}
	if u.failOn != "" && file.Name == u.failOn {
		return "", errBoom
	}
	u.counts++
	return fmt.Sprintf("https://storage.googleapis.com/test/%s/%d-%s", folder, u.counts, file.Name), nil
}

func (u *stubUploader) UploadMany(ctx context.Context, files []storage.File, folder string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := u.Upload(ctx, f, folder)
		if err != nil {
			return urls, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (u *stubUploader) Delete(ctx context.Context, objectPath string) (bool, error) {
	return true, nil
}

type recCompensator struct {
	subjects []string
	urls     []string
}

func (c *recCompensator) EnqueueIdentityDelete(ctx context.Context, subject, reason string) error {
	c.subjects = append(c.subjects, subject)
	return nil
}

func (c *recCompensator) EnqueueStorageDelete(ctx context.Context, urls []string, reason string) error {
	c.urls = append(c.urls, urls...)
	return nil
}

var errBoom = errors.New("boom")

func adminCaller() *CallerContext {
	return UsuarioCaller(repo.Usuario{ID: 1000, Nombre: "Admin", Email: "admin@test.com", Rol: repo.RolAdministrador})
}

func encargadoCaller() *CallerContext {
	return UsuarioCaller(repo.Usuario{ID: 1001, Nombre: "Encargado", Email: "enc@test.com", Rol: repo.RolEncargado})
}

func cuadrillaCaller() *CallerContext {
	return CuadrillaCaller(repo.Cuadrilla{ID: 2000, Nombre: "Cuadrilla", Email: "cq@test.com"})
}

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func pdf(name string) storage.File {
	return storage.File{Name: name, ContentType: "application/pdf", Body: []byte(strings.Repeat("x", 8))}
}
