// Package content post-processes rich-text HTML bodies stored by the CMS.
package content

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
)

// ImageResolver turns a stored image reference into a renderable URL.
type ImageResolver interface {
	Resolve(ref string, size endpoints.Size) string
}

// ResolveImages rewrites <img src> values holding bare image ids into image
// URLs at size. URLs, paths and file names are left alone. The fragment is
// returned unchanged when it holds no ids; otherwise it is re-serialized. It
// also returns the ids it resolved, in document order.
func ResolveImages(fragment string, resolver ImageResolver, size endpoints.Size) (string, []string, error) {
	if strings.TrimSpace(fragment) == "" || resolver == nil {
		return fragment, nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment, nil, fmt.Errorf("parse html: %w", err)
	}

	var ids []string
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		src = strings.TrimSpace(src)
		if !isImageID(src) {
			return
		}
		img.SetAttr("src", resolver.Resolve(src, size))
		ids = append(ids, src)
	})

	if len(ids) == 0 {
		return fragment, nil, nil
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return fragment, nil, fmt.Errorf("render html: %w", err)
	}
	return out, ids, nil
}

// ImageIDs lists the bare image ids referenced by <img src> in fragment.
func ImageIDs(fragment string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var ids []string
	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		if src := strings.TrimSpace(img.AttrOr("src", "")); isImageID(src) {
			ids = append(ids, src)
		}
	})
	return ids, nil
}

// Excerpt returns the fragment's visible text with whitespace collapsed,
// truncated to at most n runes plus an ellipsis. n <= 0 means no limit.
func Excerpt(fragment string, n int) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if n <= 0 {
		return text, nil
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text, nil
	}
	return strings.TrimSpace(string(runes[:n])) + "...", nil
}

// isImageID matches the opaque ids returned by image uploads. Anything that
// looks like a path, file name or URL is not an id.
func isImageID(src string) bool {
	if src == "" || endpoints.IsAbsolute(src) {
		return false
	}
	return !strings.ContainsAny(src, "/.:?#\\ \t")
}
