package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/mantenimiento/api/internal/auth"
	"github.com/mantenimiento/api/internal/metrics"
)

// VerifyCache guarda identidades verificadas indexadas por hash del token.
type VerifyCache interface {
	Get(ctx context.Context, key string) (Identity, bool, error)
	Set(ctx context.Context, key string, id Identity, ttl time.Duration) error
}

// MemoryCache es un VerifyCache en proceso.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, time.Minute)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (Identity, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return Identity{}, false, nil
	}
	id, ok := v.(Identity)
	return id, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, id Identity, ttl time.Duration) error {
	m.c.Set(key, id, ttl)
	return nil
}

// RedisCache comparte las verificaciones entre réplicas.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (Identity, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, false, err
	}
	return id, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, id Identity, ttl time.Duration) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

// CachingProvider decora un Provider cacheando sólo las verificaciones
// exitosas. Las verificaciones concurrentes del mismo token se agrupan.
type CachingProvider struct {
	Provider
	cache VerifyCache
	ttl   time.Duration
	group singleflight.Group
}

func NewCachingProvider(next Provider, cache VerifyCache, ttl time.Duration) *CachingProvider {
	return &CachingProvider{Provider: next, cache: cache, ttl: ttl}
}

func (p *CachingProvider) VerifyToken(ctx context.Context, token string) (Identity, error) {
	key := auth.VerifyCacheKey(auth.HashToken(token))

	// Un cache caído no debe impedir el login.
	if id, ok, err := p.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Msg("cache de verificación no disponible")
	} else if ok {
		metrics.TokenCache.WithLabelValues("hit").Inc()
		return id, nil
	}
	metrics.TokenCache.WithLabelValues("miss").Inc()

	v, err, _ := p.group.Do(key, func() (interface{}, error) {
		id, err := p.Provider.VerifyToken(ctx, token)
		metrics.ProviderCalls.WithLabelValues("verify", metrics.Result(err)).Inc()
		if err != nil {
			return Identity{}, err
		}
		if err := p.cache.Set(ctx, key, id, p.ttl); err != nil {
			log.Warn().Err(err).Msg("no se pudo cachear la verificación")
		}
		return id, nil
	})
	if err != nil {
		return Identity{}, err
	}
	return v.(Identity), nil
}

// Login se delega cuando el proveedor decorado emite tokens propios.
func (p *CachingProvider) Login(ctx context.Context, email, password string) (Token, error) {
	authenticator, ok := p.Provider.(PasswordAuthenticator)
	if !ok {
		return Token{}, ErrLoginUnsupported
	}
	return authenticator.Login(ctx, email, password)
}
