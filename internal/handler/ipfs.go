package handler

import (
	"strings"

	"github.com/feral-file/marketplace-indexer/internal/domain"
)

// IPFSHash extracts the content hash from a token uri
// Both ipfs://<hash>[/path] and gateway urls of the form https://host/ipfs/<hash>[/path] are accepted
func IPFSHash(uri string) string {
	var rest string
	switch {
	case strings.HasPrefix(uri, domain.IPFS_SCHEME):
		rest = strings.TrimPrefix(uri, domain.IPFS_SCHEME)
		rest = strings.TrimPrefix(rest, "ipfs/")
	case strings.Contains(uri, domain.IPFS_GATEWAY_PATH):
		rest = uri[strings.Index(uri, domain.IPFS_GATEWAY_PATH)+len(domain.IPFS_GATEWAY_PATH):]
	default:
		return ""
	}

	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}
