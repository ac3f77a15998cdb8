// Package assets resolves product image references to public URLs.
package assets

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver builds image URLs either from a fixed base (CDN, static server) or from an S3
// bucket in a region.
type Resolver struct {
	Bucket  string
	Region  string
	BaseURL string
}

// URL returns the public URL of ref. With neither a base URL nor a complete bucket/region pair
// the reference is returned unchanged.
func (r Resolver) URL(ref string) string {
	key := strings.TrimLeft(strings.TrimSpace(ref), "/")
	if key == "" {
		return ""
	}
	if base := strings.TrimRight(strings.TrimSpace(r.BaseURL), "/"); base != "" {
		return base + "/" + escapePath(key)
	}
	if r.Bucket == "" || r.Region == "" {
		return ref
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", r.Bucket, r.Region, escapePath(key))
}

func escapePath(ref string) string {
	segments := strings.Split(ref, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
