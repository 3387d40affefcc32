package dataset

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// IDX binary format magic numbers.
const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
)

// readIDXImages reads an MNIST-style IDX image file:
//
//	magic number: 0x00000803 (2051)
//	number of images, rows, cols: 4 bytes each, big-endian
//	pixel data: unsigned bytes (0-255)
func readIDXImages(filename string) ([][]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open image file")
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if magic != idxImagesMagic {
		return nil, errors.Errorf("invalid image magic number: got %d, want %d", magic, idxImagesMagic)
	}

	var numImages, numRows, numCols uint32
	if err := binary.Read(file, binary.BigEndian, &numImages); err != nil {
		return nil, errors.Wrap(err, "read image count")
	}
	if err := binary.Read(file, binary.BigEndian, &numRows); err != nil {
		return nil, errors.Wrap(err, "read row count")
	}
	if err := binary.Read(file, binary.BigEndian, &numCols); err != nil {
		return nil, errors.Wrap(err, "read column count")
	}

	imageSize := int(numRows * numCols)
	images := make([][]byte, numImages)
	for i := range images {
		images[i] = make([]byte, imageSize)
		if _, err := io.ReadFull(file, images[i]); err != nil {
			return nil, errors.Wrapf(err, "read image %d", i)
		}
	}

	return images, nil
}

// readIDXLabels reads an MNIST-style IDX label file:
//
//	magic number: 0x00000801 (2049)
//	number of labels: 4 bytes, big-endian
//	label data: unsigned bytes
func readIDXLabels(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open label file")
	}
	defer file.Close()

	var magic uint32
	if err := binary.Read(file, binary.BigEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if magic != idxLabelsMagic {
		return nil, errors.Errorf("invalid label magic number: got %d, want %d", magic, idxLabelsMagic)
	}

	var numLabels uint32
	if err := binary.Read(file, binary.BigEndian, &numLabels); err != nil {
		return nil, errors.Wrap(err, "read label count")
	}

	labels := make([]byte, numLabels)
	if _, err := io.ReadFull(file, labels); err != nil {
		return nil, errors.Wrap(err, "read labels")
	}

	return labels, nil
}
