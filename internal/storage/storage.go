package storage

import "context"

type PutResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Storage is the blob-store collaborator: hand it a key and bytes, get
// back the key and a resolvable URL. The rest of the app never cares
// whether that is local disk or an object store.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error)
}
