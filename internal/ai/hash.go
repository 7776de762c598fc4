package ai

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashDimension = 256

type hashConfig struct {
	Dimension int `json:"dimension"`
}

// hashEmbedProvider maps tokens into a fixed number of buckets and L2-normalises
// the counts. It needs no network and is deterministic.
type hashEmbedProvider struct {
	dim int
}

func (p *hashEmbedProvider) Name() string {
	return "hash"
}

func (p *hashEmbedProvider) Embed(_ context.Context, _ string, text string, _ string) ([]float32, error) {
	vec := make([]float32, p.dim)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum32()
		sign := float32(1)
		if sum&1 == 1 {
			sign = -1
		}
		vec[int(sum>>1)%p.dim] += sign
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func createHashEmbedFactory(args interface{}) (IEmbedProvider, error) {
	cfg := &hashConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = defaultHashDimension
	}
	return &hashEmbedProvider{dim: cfg.Dimension}, nil
}

func init() {
	RegisterEmbed("hash", createHashEmbedFactory)
}
