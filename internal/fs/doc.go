// Package fs abstracts the few filesystem calls the local blob store makes,
// so tests can inject write, sync and close failures.
//
// Production code uses fs.Default ([LocalFS]). [FaultyFS] wraps another
// FileSystem and fails operations on files whose name contains a pattern:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".pvq", fs.Fault{FailAfterBytes: 16})
package fs
