package model

// EmbeddingCacheKey identifies one cached vector. The same text embedded by a
// different model or for a different task type is a different entry.
type EmbeddingCacheKey struct {
	ModelName   string
	TaskType    string
	ContentHash string
}

type EmbeddingCache struct {
	Key       EmbeddingCacheKey
	Embedding []float32
	Ctime     int64
}
