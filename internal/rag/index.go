package rag

import (
	"fmt"
	"sort"
)

// flatIndex is an exact squared-L2 scan over every stored vector.
type flatIndex struct {
	dim     int
	vectors [][]float32
}

func newFlatIndex(dim int) *flatIndex {
	return &flatIndex{dim: dim}
}

func (f *flatIndex) Add(v []float32) error {
	if len(v) != f.dim {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), f.dim)
	}
	f.vectors = append(f.vectors, v)
	return nil
}

func (f *flatIndex) Len() int {
	return len(f.vectors)
}

type neighbor struct {
	index    int
	distance float64
}

// Search returns up to k neighbors ordered by ascending distance; ties keep
// insertion order.
func (f *flatIndex) Search(q []float32, k int) ([]neighbor, error) {
	if len(q) != f.dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(q), f.dim)
	}
	if k <= 0 || len(f.vectors) == 0 {
		return []neighbor{}, nil
	}
	all := make([]neighbor, 0, len(f.vectors))
	for i, v := range f.vectors {
		all = append(all, neighbor{index: i, distance: squaredL2(q, v)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].distance < all[j].distance
	})
	if k < len(all) {
		all = all[:k]
	}
	return all, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
