package dataset_test

import (
	"encoding/binary"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decorr-ml/decorr/internal/dataset"
)

// writeIDX writes minimal MNIST-format image and label files for n 2x2
// images into dir.
func writeIDX(t *testing.T, dir string, train bool, pixels [][]byte, labels []byte) {
	t.Helper()
	require.Equal(t, len(pixels), len(labels))

	prefix := "t10k"
	if train {
		prefix = "train"
	}

	imageFile, err := os.Create(filepath.Join(dir, prefix+"-images-idx3-ubyte"))
	require.NoError(t, err)
	defer imageFile.Close()
	for _, v := range []uint32{2051, uint32(len(pixels)), 2, 2} {
		require.NoError(t, binary.Write(imageFile, binary.BigEndian, v))
	}
	for _, img := range pixels {
		_, err := imageFile.Write(img)
		require.NoError(t, err)
	}

	labelFile, err := os.Create(filepath.Join(dir, prefix+"-labels-idx1-ubyte"))
	require.NoError(t, err)
	defer labelFile.Close()
	for _, v := range []uint32{2049, uint32(len(labels))} {
		require.NoError(t, binary.Write(labelFile, binary.BigEndian, v))
	}
	_, err = labelFile.Write(labels)
	require.NoError(t, err)
}

func TestLoadMNISTFromIDXFiles(t *testing.T) {
	dir := t.TempDir()
	writeIDX(t, dir, true,
		[][]byte{{0, 51, 102, 255}, {255, 204, 153, 0}},
		[]byte{7, 3})

	ds, err := dataset.LoadMNIST(dir, true)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, int32(7), ds.Label(0))
	assert.Equal(t, int32(3), ds.Label(1))
	assert.Equal(t, []int32{3, 7}, ds.ClassIDs())

	img := ds.Image(0)
	require.Len(t, img, 4)
	assert.InDelta(t, 0, img[0], 1e-6)
	assert.InDelta(t, 51.0/255.0, img[1], 1e-6)
	assert.InDelta(t, 1, img[3], 1e-6)
}

func TestLoadMNISTRejectsBadMagic(t *testing.T) {
	dir := t.TempDir()

	imageFile, err := os.Create(filepath.Join(dir, "train-images-idx3-ubyte"))
	require.NoError(t, err)
	require.NoError(t, binary.Write(imageFile, binary.BigEndian, uint32(1234)))
	imageFile.Close()

	_, err = dataset.LoadMNIST(dir, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "magic")
}

func TestLoadMNISTMissingFiles(t *testing.T) {
	_, err := dataset.LoadMNIST(t.TempDir(), false)
	require.Error(t, err)
}

func TestNewSynthetic(t *testing.T) {
	ds := dataset.NewSynthetic(3, 10, 16, rand.New(rand.NewSource(1)))

	require.Equal(t, 30, ds.Len())
	assert.Equal(t, []int32{0, 1, 2}, ds.ClassIDs())
	assert.Len(t, ds.Image(0), 16)

	counts := make(map[int32]int)
	for i := 0; i < ds.Len(); i++ {
		counts[ds.Label(i)]++
	}
	for class := int32(0); class < 3; class++ {
		assert.Equal(t, 10, counts[class], "class %d", class)
	}
}

func TestNewInMemoryDatasetLengthMismatch(t *testing.T) {
	_, err := dataset.NewInMemoryDataset([][]float32{{1}}, []int32{0, 1})
	require.Error(t, err)
}
