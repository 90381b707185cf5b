// Package mmap maps files read-only into memory.
//
// The local blob store reads exported bundles through it so that large
// artifacts are paged in on demand instead of copied onto the heap.
// Platforms without mmap support fall back to reading the whole file.
package mmap
