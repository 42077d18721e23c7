package dataset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/tensorann/internal/conv"
	"github.com/hupe1980/tensorann/internal/hash"
)

const (
	// Magic identifies a dataset file ("TANN").
	Magic = 0x4E4E4154
	// Version is the current format version.
	Version = 1
	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 32
	// MaxRawBytes bounds the uncompressed payload a header may announce.
	MaxRawBytes = 1 << 34
)

var (
	ErrInvalidMagic       = errors.New("invalid magic number")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrCorrupt            = errors.New("corrupt dataset")
	ErrRagged             = errors.New("vectors have different dimensions")
)

// Header describes a dataset file.
type Header struct {
	Magic       uint32
	Version     uint16
	Compression Compression
	N           uint32
	D           uint32
	PayloadLen  uint64
	Checksum    uint32
}

// Encode returns the serialized header.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	buf[6] = byte(h.Compression)
	binary.LittleEndian.PutUint32(buf[8:], h.N)
	binary.LittleEndian.PutUint32(buf[12:], h.D)
	binary.LittleEndian.PutUint64(buf[16:], h.PayloadLen)
	binary.LittleEndian.PutUint32(buf[24:], h.Checksum)
	return buf
}

// DecodeHeader parses and checks a header.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: header too small", ErrCorrupt)
	}
	h := &Header{
		Magic:       binary.LittleEndian.Uint32(buf[0:]),
		Version:     binary.LittleEndian.Uint16(buf[4:]),
		Compression: Compression(buf[6]),
		N:           binary.LittleEndian.Uint32(buf[8:]),
		D:           binary.LittleEndian.Uint32(buf[12:]),
		PayloadLen:  binary.LittleEndian.Uint64(buf[16:]),
		Checksum:    binary.LittleEndian.Uint32(buf[24:]),
	}
	if h.Magic != Magic {
		return nil, ErrInvalidMagic
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if h.Compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, h.Compression)
	}
	rawLen, err := h.rawLen()
	if err != nil {
		return nil, err
	}
	// Compressed payloads are only kept when they are smaller than the raw data.
	if h.PayloadLen > uint64(rawLen) {
		return nil, fmt.Errorf("%w: payload length %d exceeds raw size %d", ErrCorrupt, h.PayloadLen, rawLen)
	}
	return h, nil
}

// rawLen is the uncompressed payload size.
func (h *Header) rawLen() (int, error) {
	if h.D != 0 && uint64(h.N) > MaxRawBytes/8/uint64(h.D) {
		return 0, fmt.Errorf("%w: %d x %d vectors exceed %d bytes", ErrCorrupt, h.N, h.D, uint64(MaxRawBytes))
	}
	n, err := conv.Uint64ToInt(uint64(h.N) * uint64(h.D) * 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return n, nil
}

// Marshal serializes data with compression c.
func Marshal(data [][]float64, c Compression) ([]byte, error) {
	d := 0
	if len(data) > 0 {
		d = len(data[0])
	}
	n32, err := conv.IntToUint32(len(data))
	if err != nil {
		return nil, fmt.Errorf("dataset too large: %w", err)
	}
	d32, err := conv.IntToUint32(d)
	if err != nil {
		return nil, fmt.Errorf("dataset too large: %w", err)
	}
	if d32 != 0 && uint64(n32) > MaxRawBytes/8/uint64(d32) {
		return nil, fmt.Errorf("dataset too large: %d x %d vectors exceed %d bytes", n32, d32, uint64(MaxRawBytes))
	}

	raw := make([]byte, len(data)*d*8)
	off := 0
	for i, v := range data {
		if len(v) != d {
			return nil, fmt.Errorf("%w: vector %d has %d, want %d", ErrRagged, i, len(v), d)
		}
		for _, x := range v {
			binary.LittleEndian.PutUint64(raw[off:], math.Float64bits(x))
			off += 8
		}
	}

	payload, used, err := compress(raw, c)
	if err != nil {
		return nil, err
	}

	h := Header{
		Magic:       Magic,
		Version:     Version,
		Compression: used,
		N:           n32,
		D:           d32,
		PayloadLen:  uint64(len(payload)),
		Checksum:    hash.CRC32C(raw),
	}

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, h.Encode()...)
	return append(out, payload...), nil
}

// Unmarshal parses a dataset file held in memory.
func Unmarshal(buf []byte) ([][]float64, *Header, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return nil, nil, err
	}
	rest := buf[HeaderSize:]
	if uint64(len(rest)) < h.PayloadLen {
		return nil, nil, fmt.Errorf("%w: payload truncated", ErrCorrupt)
	}
	data, err := decodePayload(h, rest[:h.PayloadLen])
	if err != nil {
		return nil, nil, err
	}
	return data, h, nil
}

// Decode reads one dataset file from r.
func Decode(r io.Reader) ([][]float64, *Header, error) {
	hdr := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %w", ErrCorrupt, err)
	}
	h, err := DecodeHeader(hdr)
	if err != nil {
		return nil, nil, err
	}
	plen, err := conv.Uint64ToInt(h.PayloadLen)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: payload length: %w", ErrCorrupt, err)
	}

	// Read through a limit so a truncated stream fails before the full
	// announced length is allocated.
	payload, err := io.ReadAll(io.LimitReader(r, int64(plen)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read payload: %w", ErrCorrupt, err)
	}
	if len(payload) != plen {
		return nil, nil, fmt.Errorf("%w: payload truncated", ErrCorrupt)
	}
	data, err := decodePayload(h, payload)
	if err != nil {
		return nil, nil, err
	}
	return data, h, nil
}

func decodePayload(h *Header, payload []byte) ([][]float64, error) {
	rawLen, err := h.rawLen()
	if err != nil {
		return nil, err
	}
	raw, err := decompress(payload, h.Compression, rawLen)
	if err != nil {
		return nil, err
	}
	if got := hash.CRC32C(raw); got != h.Checksum {
		return nil, fmt.Errorf("%w: got %08x, want %08x", ErrChecksumMismatch, got, h.Checksum)
	}

	n, err := conv.Uint32ToInt(h.N)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	d, err := conv.Uint32ToInt(h.D)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	flat := make([]float64, n*d)
	for i := range flat {
		flat[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	data := make([][]float64, n)
	for i := range data {
		data[i] = flat[i*d : (i+1)*d : (i+1)*d]
	}
	return data, nil
}
