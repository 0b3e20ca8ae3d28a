package endpoints

import "strings"

// Size selects an image rendition.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseSize maps a name onto a Size, defaulting to medium.
func ParseSize(s string) Size {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizeSmall:
		return SizeSmall
	case SizeLarge:
		return SizeLarge
	default:
		return SizeMedium
	}
}

// Images builds image URLs against a configured image host.
type Images struct {
	base string
}

// NewImages returns an image catalog rooted at baseURL.
func NewImages(baseURL string) Images {
	return Images{base: strings.TrimRight(baseURL, "/")}
}

// URL renders {base}/{id}?size={size}.
func (i Images) URL(id string, size Size) string {
	return i.base + "/" + strings.TrimLeft(id, "/") + "?size=" + string(size)
}

func (i Images) Small(id string) string  { return i.URL(id, SizeSmall) }
func (i Images) Medium(id string) string { return i.URL(id, SizeMedium) }
func (i Images) Large(id string) string  { return i.URL(id, SizeLarge) }

// Resolve returns ref unchanged when it is already an absolute http(s) URL and
// otherwise treats it as an image id.
func (i Images) Resolve(ref string, size Size) string {
	if IsAbsolute(ref) {
		return ref
	}
	return i.URL(ref, size)
}

// IsAbsolute reports whether u carries an http or https scheme.
func IsAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Join appends path to base with exactly one separating slash.
func Join(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
