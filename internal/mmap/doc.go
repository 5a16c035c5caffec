// Package mmap maps blob files read-only for a single sequential pass.
//
// On unix platforms Open uses mmap(2) and advises the kernel that the pages
// will be read front to back. Other platforms read the file into memory.
package mmap
