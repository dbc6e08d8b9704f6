package identity

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mantenimiento/api/internal/repo"
)

type countingProvider struct {
	verifyCalls atomic.Int32
	fail        bool
	delay       time.Duration
}

func (p *countingProvider) VerifyToken(ctx context.Context, token string) (Identity, error) {
	p.verifyCalls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.fail {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Subject: "sub-" + token, Email: token + "@test.com"}, nil
}

func (p *countingProvider) CreateIdentity(ctx context.Context, email, password string) (string, error) {
	return "nuevo", nil
}

func (p *countingProvider) UpdateIdentity(ctx context.Context, subject string, email, password *string) error {
	return nil
}

func (p *countingProvider) DeleteIdentity(ctx context.Context, subject string) error {
	return nil
}

func (p *countingProvider) LookupByEmail(ctx context.Context, email string) (string, error) {
	return "", ErrNotFound
}

type memAccounts struct {
	mu   sync.Mutex
	rows map[string]repo.CuentaLocal
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: map[string]repo.CuentaLocal{}}
}

func (m *memAccounts) GetCuentaLocal(ctx context.Context, subjectID string) (repo.CuentaLocal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[subjectID]
	if !ok {
		return repo.CuentaLocal{}, repo.ErrNotFound
	}
	return c, nil
}

func (m *memAccounts) GetCuentaLocalByEmail(ctx context.Context, email string) (repo.CuentaLocal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return repo.CuentaLocal{}, repo.ErrNotFound
}

func (m *memAccounts) CreateCuentaLocal(ctx context.Context, subjectID, email, passwordHash string) (repo.CuentaLocal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Email, email) {
			return repo.CuentaLocal{}, repo.ErrDuplicate
		}
	}
	c := repo.CuentaLocal{SubjectID: subjectID, Email: strings.ToLower(email), PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.rows[subjectID] = c
	return c, nil
}

func (m *memAccounts) UpdateCuentaLocal(ctx context.Context, subjectID string, email, passwordHash *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[subjectID]
	if !ok {
		return repo.ErrNotFound
	}
	if email != nil {
		c.Email = strings.ToLower(*email)
	}
	if passwordHash != nil {
		c.PasswordHash = *passwordHash
	}
	m.rows[subjectID] = c
	return nil
}

func (m *memAccounts) DeleteCuentaLocal(ctx context.Context, subjectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[subjectID]; !ok {
		return repo.ErrNotFound
	}
	delete(m.rows, subjectID)
	return nil
}
