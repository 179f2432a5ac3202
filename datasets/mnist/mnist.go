// Package mnist loads the MNIST handwritten digit dataset from the gzipped IDX files
package mnist

import "os"
import "fmt"
import "crypto/sha256"
import "encoding/binary"
import "io"
import "compress/gzip"
import "path/filepath"

import "github.com/neurlang/hebbian/datasets"

func userHomeDir() string {
	dirname, err := os.UserHomeDir()
	if err != nil {
		return "~"
	}
	return dirname
}

const tmpDirectory = `/tmp/mnist/`

var customDirectory = filepath.Join(userHomeDir(), ".cache", "mnist")

// SearchDirectories are tried in order by New
var SearchDirectories = []string{tmpDirectory, customDirectory}

const inferSetImg = "t10k-images-idx3-ubyte.gz"
const inferSetVal = "t10k-labels-idx1-ubyte.gz"
const trainSetImg = "train-images-idx3-ubyte.gz"
const trainSetVal = "train-labels-idx1-ubyte.gz"
const inferDigImg = "8d422c7b0a1c1c79245a5bcf07fe86e33eeafee792b84584aec276f5a2dbc4e6"
const inferDigVal = "f7ae60f92e00ec6debd23a6088c31dbd2371eca3ffa0defaefb259924204aec6"
const trainDigImg = "440fcabf73cc546fa21475e81ea370265605f56be210a4024d2ca8f203523609"
const trainDigVal = "3552534a0a558bbed6aed32b30c495cca23d567ec52cac8be1a0730e8010255c"

const imageMagic = 0x00000803
const labelMagic = 0x00000801

// ImgSize is the side of one MNIST image
const ImgSize = 28

// Set is one part (train or infer) of MNIST, pixels scaled to [0, 1]
type Set struct {
	images [][]float64
	labels []byte
}

func (s *Set) Len() int {
	return len(s.labels)
}

func (s *Set) Sample(n int) ([]float64, byte) {
	return s.images[n], s.labels[n]
}

func (s *Set) Shape() datasets.Shape {
	return datasets.Shape{H: ImgSize, W: ImgSize, C: 1}
}

// New loads MNIST from the first of the SearchDirectories holding all four files.
func New() (train, infer *Set, err error) {
	for _, dir := range SearchDirectories {
		train, infer, err = Load(dir, true)
		if err == nil {
			return
		}
	}
	return nil, nil, err
}

// Load loads MNIST from dir. When verify is set, the sha256 sums of the files
// must match the published ones.
func Load(dir string, verify bool) (train, infer *Set, err error) {
	train, infer = new(Set), new(Set)
	var files = []struct {
		name, hash string
		images     bool
		set        *Set
	}{
		{trainSetImg, trainDigImg, true, train},
		{trainSetVal, trainDigVal, false, train},
		{inferSetImg, inferDigImg, true, infer},
		{inferSetVal, inferDigVal, false, infer},
	}
	for _, f := range files {
		name := filepath.Join(dir, f.name)
		if verify {
			if err = checkHash(name, f.hash); err != nil {
				return nil, nil, err
			}
		}
		if f.images {
			f.set.images, err = readFile(name, readImages)
		} else {
			f.set.labels, err = readFile(name, readLabels)
		}
		if err != nil {
			return nil, nil, err
		}
	}
	for _, s := range []*Set{train, infer} {
		if len(s.images) != len(s.labels) {
			return nil, nil, fmt.Errorf("mnist in '%s': %d images but %d labels", dir, len(s.images), len(s.labels))
		}
	}
	return train, infer, nil
}

func checkHash(name, hash string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("Cannot open file to check file '%s': %w", name, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return fmt.Errorf("Cannot copy file to hash file '%s': %w", name, err)
	}
	if fmt.Sprintf("%x", h.Sum(nil)) != hash {
		return fmt.Errorf("File hash for file '%s' is incorrect", name)
	}
	return nil
}

func readFile[T any](name string, read func(io.Reader) (T, error)) (out T, err error) {
	f, err := os.Open(name)
	if err != nil {
		return out, fmt.Errorf("Cannot open file to ungzip file '%s': %w", name, err)
	}
	defer f.Close()
	gzipReader, err := gzip.NewReader(f)
	if err != nil {
		return out, fmt.Errorf("Gzip file '%s' Error: %w", name, err)
	}
	defer gzipReader.Close()
	out, err = read(gzipReader)
	if err != nil {
		return out, fmt.Errorf("Reading file '%s' Error: %w", name, err)
	}
	return out, nil
}

func readImages(r io.Reader) ([][]float64, error) {
	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	if header[0] != imageMagic {
		return nil, fmt.Errorf("bad image magic %x", header[0])
	}
	if header[2] != ImgSize || header[3] != ImgSize {
		return nil, fmt.Errorf("images are %dx%d, want %dx%d", header[2], header[3], ImgSize, ImgSize)
	}
	var pixels = make([]byte, ImgSize*ImgSize)
	var set = make([][]float64, header[1])
	for i := range set {
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, err
		}
		set[i] = make([]float64, len(pixels))
		for j, p := range pixels {
			set[i][j] = float64(p) / 255
		}
	}
	return set, nil
}

func readLabels(r io.Reader) ([]byte, error) {
	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, err
	}
	if header[0] != labelMagic {
		return nil, fmt.Errorf("bad label magic %x", header[0])
	}
	var set = make([]byte, header[1])
	if _, err := io.ReadFull(r, set); err != nil {
		return nil, err
	}
	return set, nil
}
