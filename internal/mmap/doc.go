// Package mmap maps dataset files read-only into memory.
//
//	m, err := mmap.Open("dimension_32/sample_1000.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	m.Advise(mmap.AccessSequential) // decoding reads front to back
//	payload, _ := m.Region(headerSize, m.Size()-headerSize)
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile; Advise is a no-op there.
//
// A Mapping is safe for concurrent reads. Close is idempotent, but no
// goroutine may touch a slice returned by Bytes after Close returns.
package mmap
