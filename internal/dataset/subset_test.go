package dataset_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decorr-ml/decorr/internal/dataset"
)

// newBase builds a dataset with perClass items for each class id in classes,
// in class-major order. Image pixel 0 encodes the item's base index so tests
// can track where a subset item came from.
func newBase(t *testing.T, classes []int32, perClass int) *dataset.InMemoryDataset {
	t.Helper()

	var images [][]float32
	var labels []int32
	for _, class := range classes {
		for i := 0; i < perClass; i++ {
			images = append(images, []float32{float32(len(labels)), float32(class)})
			labels = append(labels, class)
		}
	}
	base, err := dataset.NewInMemoryDataset(images, labels)
	require.NoError(t, err)
	return base
}

func countByLabel(labels []int32) map[int32]int {
	counts := make(map[int32]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

func TestSubsetDeterministicForSeed(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 20)
	cfg := dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(10),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryShuffle(),
	}

	first, err := dataset.NewRelabeledSubset(base, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := dataset.NewRelabeledSubset(base, cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Targets(), second.Targets())
	assert.Equal(t, first.Targets2(), second.Targets2())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Get(i).Image, second.Get(i).Image, "item %d", i)
	}
}

func TestSubsetDifferentSeedsDiffer(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 50)
	cfg := dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(30),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}

	a, err := dataset.NewRelabeledSubset(base, cfg, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	b, err := dataset.NewRelabeledSubset(base, cfg, rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	assert.NotEqual(t, a.Targets(), b.Targets())
}

func TestSubsetClassCapAndFilter(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 10)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(5),
		Classes:   dataset.ClassesIDs(0, 1),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	require.Equal(t, 10, subset.Len())
	counts := countByLabel(subset.Targets())
	assert.Equal(t, 5, counts[0])
	assert.Equal(t, 5, counts[1])
	assert.Zero(t, counts[2], "filtered-out class must not appear")
}

func TestSubsetCapLargerThanClass(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 3)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(100),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, 6, subset.Len())
}

func TestSubsetBothAllPreservesBaseOrder(t *testing.T) {
	base := newBase(t, []int32{2, 0, 1}, 4)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	require.Equal(t, base.Len(), subset.Len())
	for i := 0; i < subset.Len(); i++ {
		sample := subset.Get(i)
		assert.Equal(t, base.Label(i), sample.Target, "item %d", i)
		assert.Equal(t, float32(i), sample.Image[0], "item %d must keep base position", i)
		assert.False(t, sample.HasTarget2)
	}
}

func TestSecondaryIndexScheme(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 6)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(4),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryIndex(),
	}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	require.True(t, subset.HasSecondary())
	for i, t2 := range subset.Targets2() {
		assert.Equal(t, int32(i), t2)
	}
}

func TestSecondaryShuffleIsPermutationOfTargets(t *testing.T) {
	base := newBase(t, []int32{0, 1, 2}, 1000)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(200),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryShuffle(),
	}, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	require.Equal(t, 600, subset.Len())
	counts := countByLabel(subset.Targets())
	for class := int32(0); class < 3; class++ {
		assert.Equal(t, 200, counts[class], "class %d", class)
	}

	targets := subset.Targets()
	targets2 := subset.Targets2()
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	sort.Slice(targets2, func(i, j int) bool { return targets2[i] < targets2[j] })
	assert.Equal(t, targets, targets2, "secondary labels must be a permutation of the primary labels")
}

func TestSecondaryBucketsBalanced(t *testing.T) {
	base := newBase(t, []int32{0}, 100)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeCap(100),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryBuckets(4),
	}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	counts := countByLabel(subset.Targets2())
	require.Len(t, counts, 4)
	for bucket := int32(0); bucket < 4; bucket++ {
		assert.Equal(t, 25, counts[bucket], "bucket %d", bucket)
	}
}

func TestSubsetRejectsUnknownClassID(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 5)

	_, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesIDs(0, 9),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))

	var cfgErr *dataset.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestSubsetRejectsNonPositiveClassCap(t *testing.T) {
	base := newBase(t, []int32{0}, 5)

	for _, n := range []int{0, -3} {
		_, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
			ClassSize: dataset.ClassSizeCap(n),
			Classes:   dataset.ClassesAll(),
			Secondary: dataset.SecondaryNone(),
		}, rand.New(rand.NewSource(1)))

		var cfgErr *dataset.ConfigError
		require.ErrorAs(t, err, &cfgErr, "cap %d", n)
	}
}

func TestSubsetRejectsInvalidBucketCount(t *testing.T) {
	base := newBase(t, []int32{0}, 5)

	_, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryBuckets(0),
	}, rand.New(rand.NewSource(1)))

	var cfgErr *dataset.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestSubsetTransformsApplied(t *testing.T) {
	base := newBase(t, []int32{0, 1}, 2)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
		Transform: func(image []float32) []float32 {
			for i := range image {
				image[i] *= 2
			}
			return image
		},
		TargetTransform: func(label int32) int32 { return label + 10 },
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	sample := subset.Get(1)
	assert.Equal(t, float32(2), sample.Image[0])
	assert.Equal(t, int32(10), sample.Target)
}

func TestSubsetImageCopyIsolation(t *testing.T) {
	base := newBase(t, []int32{0}, 1)

	subset, err := dataset.NewRelabeledSubset(base, dataset.SubsetConfig{
		ClassSize: dataset.ClassSizeAll(),
		Classes:   dataset.ClassesAll(),
		Secondary: dataset.SecondaryNone(),
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	first := subset.Get(0)
	first.Image[0] = -1
	second := subset.Get(0)
	assert.NotEqual(t, float32(-1), second.Image[0], "mutating a returned image must not change the subset")
}

func TestParseSecondary(t *testing.T) {
	tests := []struct {
		input   string
		want    dataset.Secondary
		wantErr bool
	}{
		{input: "none", want: dataset.SecondaryNone()},
		{input: "index", want: dataset.SecondaryIndex()},
		{input: "shuffle", want: dataset.SecondaryShuffle()},
		{input: "8", want: dataset.SecondaryBuckets(8)},
		{input: "0", wantErr: true},
		{input: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		got, err := dataset.ParseSecondary(tt.input)
		if tt.wantErr {
			var cfgErr *dataset.ConfigError
			require.ErrorAs(t, err, &cfgErr, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestParseClassSize(t *testing.T) {
	all, err := dataset.ParseClassSize("all")
	require.NoError(t, err)
	assert.True(t, all.IsAll())

	capped, err := dataset.ParseClassSize("200")
	require.NoError(t, err)
	assert.False(t, capped.IsAll())
	assert.Equal(t, 200, capped.Cap())

	_, err = dataset.ParseClassSize("-3")
	var cfgErr *dataset.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}
