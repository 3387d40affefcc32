// Copyright 2026 The DeCorr Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset provides labeled image datasets, the relabeled-subset
// sampler, and mini-batch construction.
package dataset

import (
	"math/rand"

	"github.com/decorr-ml/decorr/internal/dataset"
	"github.com/decorr-ml/decorr/internal/tensor"
)

// Dataset is the base labeled dataset contract.
type Dataset = dataset.Dataset

// InMemoryDataset holds flattened images and labels in memory.
type InMemoryDataset = dataset.InMemoryDataset

// NewInMemoryDataset builds a dataset from parallel image and label slices.
func NewInMemoryDataset(images [][]float32, labels []int32) (*InMemoryDataset, error) {
	return dataset.NewInMemoryDataset(images, labels)
}

// ConfigError reports an invalid subset configuration.
type ConfigError = dataset.ConfigError

// Subset configuration variants.
type (
	ClassSize   = dataset.ClassSize
	ClassFilter = dataset.ClassFilter
	Secondary   = dataset.Secondary
)

// ClassSizeAll keeps every item of each selected class.
func ClassSizeAll() ClassSize { return dataset.ClassSizeAll() }

// ClassSizeCap keeps at most n items per class.
func ClassSizeCap(n int) ClassSize { return dataset.ClassSizeCap(n) }

// ParseClassSize parses "all" or a positive integer.
func ParseClassSize(s string) (ClassSize, error) { return dataset.ParseClassSize(s) }

// ClassesAll selects every class.
func ClassesAll() ClassFilter { return dataset.ClassesAll() }

// ClassesIDs selects exactly the given class ids.
func ClassesIDs(ids ...int32) ClassFilter { return dataset.ClassesIDs(ids...) }

// SecondaryNone attaches no secondary labels.
func SecondaryNone() Secondary { return dataset.SecondaryNone() }

// SecondaryIndex labels item i with i itself.
func SecondaryIndex() Secondary { return dataset.SecondaryIndex() }

// SecondaryShuffle labels items with a permutation of the primary labels.
func SecondaryShuffle() Secondary { return dataset.SecondaryShuffle() }

// SecondaryBuckets assigns items to k balanced synthetic classes.
func SecondaryBuckets(k int) Secondary { return dataset.SecondaryBuckets(k) }

// ParseSecondary parses "none", "index", "shuffle", or a bucket count.
func ParseSecondary(s string) (Secondary, error) { return dataset.ParseSecondary(s) }

// Transform maps a stored image to the representation handed to the model.
type Transform = dataset.Transform

// TargetTransform maps a stored label to the value handed to the model.
type TargetTransform = dataset.TargetTransform

// SubsetConfig configures a RelabeledSubset.
type SubsetConfig = dataset.SubsetConfig

// Sample is one subset item.
type Sample = dataset.Sample

// RelabeledSubset is a fixed, seed-reproducible subset of a base dataset
// with optional synthetic secondary labels.
type RelabeledSubset = dataset.RelabeledSubset

// NewRelabeledSubset builds a subset; all randomness comes from rng.
func NewRelabeledSubset(base Dataset, cfg SubsetConfig, rng *rand.Rand) (*RelabeledSubset, error) {
	return dataset.NewRelabeledSubset(base, cfg, rng)
}

// Batch is one mini-batch materialized as tensors.
type Batch[B tensor.Backend] = dataset.Batch[B]

// Batches splits a subset into mini-batches, shuffled when rng is non-nil.
func Batches[B tensor.Backend](subset *RelabeledSubset, batchSize int, rng *rand.Rand, backend B) ([]*Batch[B], error) {
	return dataset.Batches(subset, batchSize, rng, backend)
}

// MNIST image geometry.
const (
	MNISTRows   = dataset.MNISTRows
	MNISTCols   = dataset.MNISTCols
	MNISTPixels = dataset.MNISTPixels
)

// LoadMNIST loads the official MNIST IDX files from dataDir.
func LoadMNIST(dataDir string, train bool) (*InMemoryDataset, error) {
	return dataset.LoadMNIST(dataDir, train)
}

// NewSynthetic builds a small noisy-template dataset for tests and demos.
func NewSynthetic(numClasses, perClass, pixels int, rng *rand.Rand) *InMemoryDataset {
	return dataset.NewSynthetic(numClasses, perClass, pixels, rng)
}
