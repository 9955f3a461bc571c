package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ResponseArchive stores raw generation-collaborator output for support and
// debugging. The plan row already carries the raw text, so archive failures
// are logged by callers and never fail the request.
type ResponseArchive interface {
	// ArchiveResponse writes the raw model output under the given object key.
	ArchiveResponse(ctx context.Context, objectKey string, raw []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET
	// requests for an archived response.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}
