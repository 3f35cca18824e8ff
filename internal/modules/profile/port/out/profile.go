package out

import "context"

// LocalStorage is a string-keyed blob store. GetItem reports found=false for
// a missing key rather than an error.
type LocalStorage interface {
	GetItem(ctx context.Context, key string) (value []byte, found bool, err error)
	SetItem(ctx context.Context, key string, value []byte) error
}

// DocumentReader extracts plain text from a file on disk.
type DocumentReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}
