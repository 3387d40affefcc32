package dataset_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decorr-ml/decorr/internal/backend/cpu"
	"github.com/decorr-ml/decorr/internal/dataset"
	"github.com/decorr-ml/decorr/internal/tensor"
)

func TestBatchesShapesAndLastBatch(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 5)
	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	batches, err := dataset.Batches(subset, 4, nil, cpu.New())
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, tensor.Shape{4, 2}, batches[0].Images.Shape())
	assert.Equal(t, tensor.Shape{4}, batches[0].Targets.Shape())
	assert.Equal(t, 2, batches[2].Size, "last batch holds the remainder")
	assert.Equal(t, tensor.Shape{2, 2}, batches[2].Images.Shape())

	for _, b := range batches {
		assert.Nil(t, b.Targets2)
	}
}

func TestBatchesCarrySecondaryTargets(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 4)
	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryIndex(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	batches, err := dataset.Batches(subset, 8, nil, cpu.New())
	require.NoError(t, err)
	require.Len(t, batches, 1)

	require.NotNil(t, batches[0].Targets2)
	assert.Equal(t, tensor.Shape{8}, batches[0].Targets2.Shape())
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 7}, batches[0].Targets2.Data())
}

func TestBatchesNilRNGPreservesOrder(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 2)
	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	batches, err := dataset.Batches(subset, 6, nil, cpu.New())
	require.NoError(t, err)
	require.Len(t, batches, 1)

	assert.Equal(t, subset.Targets(), batches[0].Targets.Data())
}

func TestBatchesShuffleIsSeedDeterministic(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 10)
	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	first, err := dataset.Batches(subset, 30, rand.New(rand.NewSource(5)), cpu.New())
	require.NoError(t, err)
	second, err := dataset.Batches(subset, 30, rand.New(rand.NewSource(5)), cpu.New())
	require.NoError(t, err)

	assert.Equal(t, first[0].Targets.Data(), second[0].Targets.Data())
}

func TestBatchesRejectsInvalidBatchSize(t *testing.T) {
	base := newBase(t, []int32{0}, 2)
	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = dataset.Batches(subset, 0, nil, cpu.New())
	require.Error(t, err)
}
