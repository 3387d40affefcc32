package dataset

import (
	"math/rand"
	"path/filepath"

	"github.com/pkg/errors"
)

// MNIST image geometry.
const (
	MNISTRows   = 28
	MNISTCols   = 28
	MNISTPixels = MNISTRows * MNISTCols
)

// LoadMNIST loads the official MNIST dataset from IDX binary files in
// dataDir, normalized to [0, 1]. With train=false the 10k test split is
// loaded instead.
//
// Expected files: train-images-idx3-ubyte and train-labels-idx1-ubyte
// (t10k-* for the test split).
func LoadMNIST(dataDir string, train bool) (*InMemoryDataset, error) {
	var imageFile, labelFile string
	if train {
		imageFile = filepath.Join(dataDir, "train-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "train-labels-idx1-ubyte")
	} else {
		imageFile = filepath.Join(dataDir, "t10k-images-idx3-ubyte")
		labelFile = filepath.Join(dataDir, "t10k-labels-idx1-ubyte")
	}

	imagesRaw, err := readIDXImages(imageFile)
	if err != nil {
		return nil, errors.Wrap(err, "load images")
	}
	labelsRaw, err := readIDXLabels(labelFile)
	if err != nil {
		return nil, errors.Wrap(err, "load labels")
	}
	if len(imagesRaw) != len(labelsRaw) {
		return nil, errors.Errorf("image count (%d) != label count (%d)", len(imagesRaw), len(labelsRaw))
	}

	images := make([][]float32, len(imagesRaw))
	labels := make([]int32, len(labelsRaw))
	for i := range imagesRaw {
		images[i] = make([]float32, len(imagesRaw[i]))
		for j, px := range imagesRaw[i] {
			images[i][j] = float32(px) / 255.0
		}
		labels[i] = int32(labelsRaw[i])
	}

	return NewInMemoryDataset(images, labels)
}

// NewSynthetic builds a small in-memory dataset with numClasses classes of
// perClass noisy class-template images. Useful for tests and demos when no
// MNIST files are on disk.
func NewSynthetic(numClasses, perClass, pixels int, rng *rand.Rand) *InMemoryDataset {
	n := numClasses * perClass
	images := make([][]float32, 0, n)
	labels := make([]int32, 0, n)

	templates := make([][]float32, numClasses)
	for c := range templates {
		templates[c] = make([]float32, pixels)
		for j := range templates[c] {
			templates[c][j] = rng.Float32()
		}
	}

	for c := 0; c < numClasses; c++ {
		for k := 0; k < perClass; k++ {
			img := make([]float32, pixels)
			for j := range img {
				img[j] = templates[c][j] + 0.1*float32(rng.NormFloat64())
			}
			images = append(images, img)
			labels = append(labels, int32(c))
		}
	}

	ds, err := NewInMemoryDataset(images, labels)
	if err != nil {
		// Lengths match by construction.
		panic(err)
	}
	return ds
}
