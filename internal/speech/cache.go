package speech

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/utils"
)

// CachedSynthesizer memoizes synthesized audio by voice and text.
type CachedSynthesizer struct {
	next  Synthesizer
	cache *ristretto.Cache[uint64, []byte]
}

func NewCachedSynthesizer(next Synthesizer, maxBytes int64) (*CachedSynthesizer, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []byte]{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create audio cache: %w", err)
	}
	return &CachedSynthesizer{next: next, cache: cache}, nil
}

func (c *CachedSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	key := utils.HashParts(voiceID, text)
	if audio, ok := c.cache.Get(key); ok {
		metrics.TTSCache.WithLabelValues("hit").Inc()
		return audio, nil
	}
	metrics.TTSCache.WithLabelValues("miss").Inc()

	audio, err := c.next.Synthesize(ctx, text, voiceID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, audio, int64(len(audio)))
	return audio, nil
}

func (c *CachedSynthesizer) Close() {
	c.cache.Close()
}
