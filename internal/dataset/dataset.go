// Package dataset provides labeled image datasets and the relabeled-subset
// sampler used to build class-balanced training subsets with optional
// synthetic secondary labels.
package dataset

import (
	"sort"

	"github.com/pkg/errors"
)

// Dataset is the base labeled dataset contract: an indexable collection of
// (image, label) pairs plus the set of class ids present.
type Dataset interface {
	// Len returns the number of items.
	Len() int

	// Image returns the stored image for item i. Callers must not mutate
	// the returned slice.
	Image(i int) []float32

	// Label returns the class label for item i.
	Label(i int) int32

	// ClassIDs returns the distinct class ids, ascending.
	ClassIDs() []int32
}

// InMemoryDataset holds flattened images and labels in memory.
type InMemoryDataset struct {
	images   [][]float32
	labels   []int32
	classIDs []int32
}

// NewInMemoryDataset builds a dataset from parallel image and label slices.
// The slices are retained, not copied.
func NewInMemoryDataset(images [][]float32, labels []int32) (*InMemoryDataset, error) {
	if len(images) != len(labels) {
		return nil, errors.Errorf("dataset: %d images but %d labels", len(images), len(labels))
	}

	seen := make(map[int32]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	classIDs := make([]int32, 0, len(seen))
	for id := range seen {
		classIDs = append(classIDs, id)
	}
	sort.Slice(classIDs, func(i, j int) bool { return classIDs[i] < classIDs[j] })

	return &InMemoryDataset{images: images, labels: labels, classIDs: classIDs}, nil
}

func (d *InMemoryDataset) Len() int { return len(d.labels) }

func (d *InMemoryDataset) Image(i int) []float32 { return d.images[i] }

func (d *InMemoryDataset) Label(i int) int32 { return d.labels[i] }

func (d *InMemoryDataset) ClassIDs() []int32 { return d.classIDs }
