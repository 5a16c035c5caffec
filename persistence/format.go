package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// MagicNumber identifies shapeset artifacts (ASCII: "SHPS").
	MagicNumber = 0x53504853
	// Version is the current file format version.
	Version = 1

	// HeaderSize is the encoded size of FileHeader in bytes.
	HeaderSize = 64
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrInvalidKind    = errors.New("invalid artifact kind")
	ErrCorrupt        = errors.New("corrupt artifact")
)

// Kind identifies the content of an artifact.
type Kind uint8

const (
	KindFeatures Kind = 1
	KindLabels   Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindFeatures:
		return "features"
	case KindLabels:
		return "labels"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind parses "features" or "labels".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "features":
		return KindFeatures, nil
	case "labels":
		return KindLabels, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// FileHeader is the 64-byte header at the start of every artifact.
type FileHeader struct {
	Magic       uint32      // 0x53504853 ("SHPS")
	Version     uint32      // File format version
	Kind        Kind        // 1=features, 2=labels
	Compression Compression // Payload compression
	Padding     [2]byte     // Reserved, zero
	Rows        uint64      // Number of samples
	Cols        uint64      // Features per sample, 0 for labels
	BuildID     BuildID     // Shared by both artifacts of one save
	PayloadSize uint64      // Bytes following the header
	RawSize     uint64      // Payload size after decompression
	Checksum    uint32      // CRC32 of the uncompressed payload
}

func (h *FileHeader) marshal() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint32(buf[4:], h.Version)
	buf[8] = byte(h.Kind)
	buf[9] = byte(h.Compression)
	binary.LittleEndian.PutUint64(buf[12:], h.Rows)
	binary.LittleEndian.PutUint64(buf[20:], h.Cols)
	copy(buf[28:44], h.BuildID[:])
	binary.LittleEndian.PutUint64(buf[44:], h.PayloadSize)
	binary.LittleEndian.PutUint64(buf[52:], h.RawSize)
	binary.LittleEndian.PutUint32(buf[60:], h.Checksum)
	return buf
}

// ReadHeader parses and validates the header at the start of data.
func ReadHeader(data []byte) (*FileHeader, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}

	h := &FileHeader{
		Magic:       binary.LittleEndian.Uint32(data[0:]),
		Version:     binary.LittleEndian.Uint32(data[4:]),
		Kind:        Kind(data[8]),
		Compression: Compression(data[9]),
		Rows:        binary.LittleEndian.Uint64(data[12:]),
		Cols:        binary.LittleEndian.Uint64(data[20:]),
		PayloadSize: binary.LittleEndian.Uint64(data[44:]),
		RawSize:     binary.LittleEndian.Uint64(data[52:]),
		Checksum:    binary.LittleEndian.Uint32(data[60:]),
	}
	copy(h.BuildID[:], data[28:44])

	if h.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, h.Version)
	}
	if h.Kind != KindFeatures && h.Kind != KindLabels {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKind, h.Kind)
	}
	if err := h.Compression.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}
