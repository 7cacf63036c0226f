package domain

import "strings"

// ImagePath is the route prefix uploaded images are served under.
const ImagePath = "/images"

// URLResolver turns stored image references into absolute URLs.
type URLResolver struct {
	BaseURL string
}

// Resolve leaves empty and already absolute references alone and joins bare file names onto
// {BaseURL}/images/.
func (r URLResolver) Resolve(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}
	ref = strings.TrimPrefix(ref, ImagePath+"/")
	return strings.TrimRight(r.BaseURL, "/") + ImagePath + "/" + strings.TrimLeft(ref, "/")
}
