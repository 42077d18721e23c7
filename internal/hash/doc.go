// Package hash provides CRC32-Castagnoli checksums.
//
// Dataset files carry a CRC32C of their raw payload in the header, and the
// S3 store sends the same checksum with small uploads so the server can
// verify them.
//
//	checksum := hash.CRC32C(data)
package hash
