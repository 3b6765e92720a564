// Package cache wraps an embedding service with a Redis-backed vector cache.
//
// Redis failures never fail an embedding request: the cache falls back to
// the wrapped service and logs a throttled warning.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dailybit/internal/core/ports/driven"
	"github.com/custodia-labs/dailybit/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// KeyPrefix namespaces cache entries.
const KeyPrefix = "dailybit:emb:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// EmbeddingService serves vectors from Redis when present and delegates
// misses to the wrapped service.
type EmbeddingService struct {
	inner driven.EmbeddingService
	store Store
	ttl   time.Duration
	warn  *rate.Sometimes
}

// New wraps inner. A zero ttl keeps entries until evicted.
func New(inner driven.EmbeddingService, store Store, ttl time.Duration) *EmbeddingService {
	return &EmbeddingService{
		inner: inner,
		store: store,
		ttl:   ttl,
		warn:  &rate.Sometimes{First: 1, Interval: time.Minute},
	}
}

// Embed returns the cached vector for text, embedding it on a miss.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.key(text)
	if vec, ok := s.lookup(ctx, key); ok {
		return vec, nil
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, vec)
	return vec, nil
}

// EmbedBatch embeds only the cache misses, in one call to the wrapped service.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		keys[i] = s.key(text)
		if vec, ok := s.lookup(ctx, keys[i]); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}
	logger.Debug("embedding cache: %d hits, %d misses", len(texts)-len(missTexts), len(missTexts))

	vecs, err := s.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedding cache: got %d vectors for %d texts", len(vecs), len(missTexts))
	}

	for j, i := range missIdx {
		out[i] = vecs[j]
		s.save(ctx, keys[i], vecs[j])
	}
	return out, nil
}

func (s *EmbeddingService) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + s.inner.ModelName() + ":" + hex.EncodeToString(sum[:])
}

func (s *EmbeddingService) lookup(ctx context.Context, key string) ([]float32, bool) {
	raw, err := s.store.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.degraded("get", err)
		}
		return nil, false
	}
	vec, err := decode(raw)
	if err != nil {
		s.degraded("decode", err)
		return nil, false
	}
	return vec, true
}

func (s *EmbeddingService) save(ctx context.Context, key string, vec []float32) {
	if err := s.store.Set(ctx, key, encode(vec), s.ttl).Err(); err != nil {
		s.degraded("set", err)
	}
}

func (s *EmbeddingService) degraded(op string, err error) {
	s.warn.Do(func() {
		logger.Warn("embedding cache %s failed, using provider directly: %v", op, err)
	})
}

// encode packs a vector as little-endian float32s.
func encode(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decode(raw []byte) ([]float32, error) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, fmt.Errorf("corrupt cache entry of %d bytes", len(raw))
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
	}
	return vec, nil
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the wrapped service's model.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping checks the wrapped service only; Redis is optional.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }
