package dataset

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/decorr-ml/decorr/internal/tensor"
)

// Batch is one mini-batch of subset items materialized as tensors.
// Targets2 is nil when the subset carries no secondary labels.
type Batch[B tensor.Backend] struct {
	Images   *tensor.Tensor[float32, B] // [size, pixels]
	Targets  *tensor.Tensor[int32, B]   // [size]
	Targets2 *tensor.Tensor[int32, B]   // [size] or nil
	Size     int
}

// Batches splits a subset into mini-batches of at most batchSize items.
// With a non-nil rng the item order is shuffled first; the last batch may be
// smaller when the length does not divide evenly.
func Batches[B tensor.Backend](subset *RelabeledSubset, batchSize int, rng *rand.Rand, backend B) ([]*Batch[B], error) {
	if batchSize < 1 {
		return nil, errors.Errorf("batch size must be positive, got %d", batchSize)
	}

	n := subset.Len()
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if rng != nil {
		rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	var pixels int
	if n > 0 {
		pixels = len(subset.Get(0).Image)
	}

	numBatches := (n + batchSize - 1) / batchSize
	batches := make([]*Batch[B], 0, numBatches)

	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		size := end - start

		imagesRaw, err := tensor.NewRaw(tensor.Shape{size, pixels}, tensor.Float32, backend.Device())
		if err != nil {
			return nil, errors.Wrap(err, "create image tensor")
		}
		targetsRaw, err := tensor.NewRaw(tensor.Shape{size}, tensor.Int32, backend.Device())
		if err != nil {
			return nil, errors.Wrap(err, "create target tensor")
		}

		var targets2Raw *tensor.RawTensor
		if subset.HasSecondary() {
			targets2Raw, err = tensor.NewRaw(tensor.Shape{size}, tensor.Int32, backend.Device())
			if err != nil {
				return nil, errors.Wrap(err, "create secondary target tensor")
			}
		}

		imagesData := imagesRaw.AsFloat32()
		targetsData := targetsRaw.AsInt32()
		for row := 0; row < size; row++ {
			sample := subset.Get(indices[start+row])
			if len(sample.Image) != pixels {
				return nil, errors.Errorf("inconsistent image length: got %d, want %d", len(sample.Image), pixels)
			}
			copy(imagesData[row*pixels:(row+1)*pixels], sample.Image)
			targetsData[row] = sample.Target
			if targets2Raw != nil {
				targets2Raw.AsInt32()[row] = sample.Target2
			}
		}

		batch := &Batch[B]{
			Images:  tensor.New[float32, B](imagesRaw, backend),
			Targets: tensor.New[int32, B](targetsRaw, backend),
			Size:    size,
		}
		if targets2Raw != nil {
			batch.Targets2 = tensor.New[int32, B](targets2Raw, backend)
		}
		batches = append(batches, batch)
	}

	return batches, nil
}
