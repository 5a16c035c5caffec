// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with write/sync capabilities
//   - [FileSystem]: filesystem operations used by the local blob store
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects I/O errors
//
// # Usage
//
// Production code uses fs.Default (which is [LocalFS]):
//
//	f, err := fs.Default.CreateTemp(dir, ".sample-*")
//
// Tests inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".png", fs.Fault{FailAfterBytes: 0})
//	store := blobstore.NewLocalStore(root, blobstore.WithFileSystem(ffs))
//
// Filesystem operations take no context.Context: they are short and not
// interruptible at the syscall level. Remote backends live in blobstore.
package fs
