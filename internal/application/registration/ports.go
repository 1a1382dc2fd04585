package registration

import "context"

// ObjectStorage abstracts the document storage backend. Keys and public
// URLs convert both ways so a stored document can be deleted given only
// the URL handed to the client.
type ObjectStorage interface {
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, storageKey string) error
	ObjectURL(storageKey string) string
	StorageKeyFromURL(objectURL string) (string, error)
}
