package routing

import (
	"strings"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// ResolvePath returns the resource named by the segment that follows the
// version marker in path. The first occurrence of the marker wins and any
// trailing segments are ignored:
//
//	ResolvePath("/api/v1/customers/42", "v1") // "customers"
//
// It fails with domain.ErrMalformedPath when the marker is absent or is the
// last segment.
func ResolvePath(path, version string) (domain.ResourceName, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	for i, seg := range segments {
		if seg != version {
			continue
		}
		if i+1 >= len(segments) || segments[i+1] == "" {
			break
		}
		return domain.ResourceName(segments[i+1]), nil
	}

	return "", domain.ErrMalformedPath
}

// Subpath returns the segments after the resource segment, joined by "/".
// It returns "" when the resource is the last segment.
func Subpath(path, version string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if seg == version && i+2 <= len(segments) {
			return strings.Join(segments[i+2:], "/")
		}
	}
	return ""
}
