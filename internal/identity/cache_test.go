package identity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachingProviderCachesSuccess(t *testing.T) {
	next := &countingProvider{}
	p := NewCachingProvider(next, NewMemoryCache(time.Minute), time.Minute)

	first, err := p.VerifyToken(context.Background(), "ana")
	require.NoError(t, err)
	second, err := p.VerifyToken(context.Background(), "ana")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "ana@test.com", first.Email)
	assert.EqualValues(t, 1, next.verifyCalls.Load())
}

func TestCachingProviderNeverCachesFailures(t *testing.T) {
	next := &countingProvider{fail: true}
	p := NewCachingProvider(next, NewMemoryCache(time.Minute), time.Minute)

	_, err := p.VerifyToken(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = p.VerifyToken(context.Background(), "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	assert.EqualValues(t, 2, next.verifyCalls.Load())
}

func TestCachingProviderCollapsesConcurrentVerifications(t *testing.T) {
	next := &countingProvider{delay: 50 * time.Millisecond}
	p := NewCachingProvider(next, NewMemoryCache(time.Minute), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.VerifyToken(context.Background(), "mismo")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, next.verifyCalls.Load(), int32(2))
}

func TestCachingProviderDelegatesWrites(t *testing.T) {
	p := NewCachingProvider(&countingProvider{}, NewMemoryCache(time.Minute), time.Minute)

	subject, err := p.CreateIdentity(context.Background(), "a@test.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "nuevo", subject)

	_, err = p.Login(context.Background(), "a@test.com", "secreto123")
	assert.ErrorIs(t, err, ErrLoginUnsupported)
}
