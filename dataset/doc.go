// Package dataset generates, encodes and persists the vector collections
// the indexes are built over.
//
// # File Format
//
// A dataset file is a 32-byte little-endian header followed by the payload:
//
//	┌──────────────────────────────────────────┐
//	│ magic "TANN"            uint32           │
//	│ version                 uint16           │
//	│ compression             uint8            │
//	│ reserved                uint8            │
//	│ n (vectors)             uint32           │
//	│ d (dimension)           uint32           │
//	│ payload length          uint64           │
//	│ CRC32C of raw payload   uint32           │
//	│ reserved                uint32           │
//	├──────────────────────────────────────────┤
//	│ n·d float64, row-major, optionally       │
//	│ compressed as one LZ4 or ZSTD block      │
//	└──────────────────────────────────────────┘
//
// Files are stored as dimension_<d>/sample_<n>.bin. The CURRENT blob names
// the dataset that tools load by default.
package dataset
