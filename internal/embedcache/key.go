package embedcache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

func buildKey(modelName, taskType, text string) model.EmbeddingCacheKey {
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		modelName = "unknown"
	}
	sum := sha256.Sum256([]byte(text))
	return model.EmbeddingCacheKey{
		ModelName:   modelName,
		TaskType:    taskType,
		ContentHash: hex.EncodeToString(sum[:]),
	}
}

type keyString string

func lruKey(k model.EmbeddingCacheKey) keyString {
	return keyString("embed:" + k.ModelName + ":" + k.TaskType + ":" + k.ContentHash)
}

func cloneEmbedding(values []float32) []float32 {
	if len(values) == 0 {
		return nil
	}
	clone := make([]float32, len(values))
	copy(clone, values)
	return clone
}
