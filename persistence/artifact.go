package persistence

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"gonum.org/v1/gonum/mat"
)

// BuildID ties the two artifacts of one save together.
type BuildID [16]byte

func encode(kind Kind, rows, cols int, id BuildID, c Compression, raw []byte) ([]byte, error) {
	payload, applied, err := compress(raw, c)
	if err != nil {
		return nil, fmt.Errorf("persistence: compress %s: %w", kind, err)
	}

	h := FileHeader{
		Magic:       MagicNumber,
		Version:     Version,
		Kind:        kind,
		Compression: applied,
		Rows:        uint64(rows),
		Cols:        uint64(cols),
		BuildID:     id,
		PayloadSize: uint64(len(payload)),
		RawSize:     uint64(len(raw)),
		Checksum:    ComputeChecksum(raw),
	}

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, h.marshal()...)
	return append(out, payload...), nil
}

// decode validates an artifact of the wanted kind and returns its raw payload.
func decode(data []byte, want Kind) (*FileHeader, []byte, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if h.Kind != want {
		return nil, nil, fmt.Errorf("%w: got %s, expected %s", ErrInvalidKind, h.Kind, want)
	}
	if uint64(len(data)-HeaderSize) != h.PayloadSize {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data)-HeaderSize, h.PayloadSize)
	}

	raw, err := decompress(data[HeaderSize:], h.Compression, h.RawSize)
	if err != nil {
		return nil, nil, err
	}
	if err := VerifyChecksum(raw, h.Checksum); err != nil {
		return nil, nil, fmt.Errorf("persistence: %s: %w", want, err)
	}
	return h, raw, nil
}

// EncodeFeatures serializes a feature matrix.
func EncodeFeatures(m *mat.Dense, id BuildID, c Compression) ([]byte, error) {
	rows, cols := m.Dims()
	raw := make([]byte, rows*cols*8)

	off := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			binary.LittleEndian.PutUint64(raw[off:], math.Float64bits(m.At(i, j)))
			off += 8
		}
	}
	return encode(KindFeatures, rows, cols, id, c, raw)
}

// DecodeFeatures parses a features artifact.
func DecodeFeatures(data []byte) (*mat.Dense, *FileHeader, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if h.Rows == 0 || h.Cols == 0 || h.Rows > math.MaxInt32 || h.Cols > math.MaxInt32 || h.Rows*h.Cols > math.MaxInt/8 {
		return nil, nil, fmt.Errorf("%w: invalid shape %dx%d", ErrCorrupt, h.Rows, h.Cols)
	}
	if h.RawSize != h.Rows*h.Cols*8 {
		return nil, nil, fmt.Errorf("%w: %d bytes cannot hold %dx%d float64", ErrCorrupt, h.RawSize, h.Rows, h.Cols)
	}

	h, raw, err := decode(data, KindFeatures)
	if err != nil {
		return nil, nil, err
	}

	values := make([]float64, h.Rows*h.Cols)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return mat.NewDense(int(h.Rows), int(h.Cols), values), h, nil
}

// EncodeLabels serializes a label vector.
func EncodeLabels(labels []string, id BuildID, c Compression) ([]byte, error) {
	size := 0
	for _, l := range labels {
		size += binary.MaxVarintLen64 + len(l)
	}

	raw := make([]byte, 0, size)
	for _, l := range labels {
		raw = binary.AppendUvarint(raw, uint64(len(l)))
		raw = append(raw, l...)
	}
	return encode(KindLabels, len(labels), 0, id, c, raw)
}

// DecodeLabels parses a labels artifact.
func DecodeLabels(data []byte) ([]string, *FileHeader, error) {
	h, raw, err := decode(data, KindLabels)
	if err != nil {
		return nil, nil, err
	}
	if h.Rows > uint64(len(raw)) {
		return nil, nil, fmt.Errorf("%w: %d labels cannot fit in %d bytes", ErrCorrupt, h.Rows, len(raw))
	}

	labels := make([]string, 0, h.Rows)
	for len(raw) > 0 {
		n, k := binary.Uvarint(raw)
		if k <= 0 || n > uint64(len(raw)-k) {
			return nil, nil, fmt.Errorf("%w: truncated label %d", ErrCorrupt, len(labels))
		}
		l := raw[k : k+int(n)]
		if !utf8.Valid(l) {
			return nil, nil, fmt.Errorf("%w: label %d is not valid UTF-8", ErrCorrupt, len(labels))
		}
		labels = append(labels, string(l))
		raw = raw[k+int(n):]
	}
	if uint64(len(labels)) != h.Rows {
		return nil, nil, fmt.Errorf("%w: %d labels, header says %d", ErrCorrupt, len(labels), h.Rows)
	}
	return labels, h, nil
}
