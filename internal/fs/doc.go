// Package fs abstracts the file operations of the local blob store so that
// tests can inject write, sync, close and rename failures.
//
// Production code uses [Default]. Tests wrap it with [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("sample_10.bin", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, func(o *blobstore.LocalOptions) { o.FS = ffs })
package fs
