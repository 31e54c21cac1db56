// Package mmap maps local mesh files read-only into memory.
//
// Mesh files are parsed front to back, so a mapping is advised as sequential
// on open. Unix uses mmap(2) and madvise(2); Windows uses
// CreateFileMapping/MapViewOfFile and ignores the advice.
//
//	m, err := mmap.Open("bunny.obj")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
package mmap
