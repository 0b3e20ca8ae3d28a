package content

import (
	"reflect"
	"strings"
	"testing"

	"github.com/suntech-x/cmsadmin/pkg/endpoints"
)

func TestResolveImagesRewritesBareIDs(t *testing.T) {
	images := endpoints.NewImages("https://img.example.com/")
	html := `<p>Intro</p><img src="abc123"><img src="https://cdn.example.com/x.png"><img src="/static/logo.png"><img src="data:image/png;base64,AAAA"><img src="def456">`

	out, ids, err := ResolveImages(html, images, endpoints.SizeLarge)
	if err != nil {
		t.Fatalf("ResolveImages: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"abc123", "def456"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
	for _, want := range []string{
		`src="https://img.example.com/abc123?size=large"`,
		`src="https://img.example.com/def456?size=large"`,
		`src="https://cdn.example.com/x.png"`,
		`src="/static/logo.png"`,
		`<p>Intro</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %s:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<body>") || strings.Contains(out, "<html>") {
		t.Fatalf("expected fragment output, got %s", out)
	}
}

func TestResolveImagesLeavesFragmentWithoutIDsUntouched(t *testing.T) {
	html := `<p>no <b>images</b></p>`
	out, ids, err := ResolveImages(html, endpoints.NewImages("http://i"), endpoints.SizeMedium)
	if err != nil {
		t.Fatalf("ResolveImages: %v", err)
	}
	if out != html || ids != nil {
		t.Fatalf("expected untouched fragment, got %q ids=%v", out, ids)
	}
}

func TestResolveImagesKeepsRelativePaths(t *testing.T) {
	html := `<p>x</p><img src="assets/logo.png"><img src="logo.png"><img src="../img/a"><img src="cid:part1"><img src="photo?v=2">`
	out, ids, err := ResolveImages(html, endpoints.NewImages("https://img.example.com"), endpoints.SizeMedium)
	if err != nil {
		t.Fatalf("ResolveImages: %v", err)
	}
	if out != html || ids != nil {
		t.Fatalf("expected paths and file names untouched, got %q ids=%v", out, ids)
	}
}

func TestImageIDs(t *testing.T) {
	ids, err := ImageIDs(`<div><img src=" one "><img src="http://x/y"></div>`)
	if err != nil {
		t.Fatalf("ImageIDs: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"one"}) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestExcerpt(t *testing.T) {
	html := "<h1>Xin chào</h1>\n<p>thế   giới  mới</p>"

	full, err := Excerpt(html, 0)
	if err != nil {
		t.Fatalf("Excerpt: %v", err)
	}
	if full != "Xin chào thế giới mới" {
		t.Fatalf("unexpected excerpt %q", full)
	}

	short, _ := Excerpt(html, 8)
	if short != "Xin chào..." {
		t.Fatalf("unexpected truncated excerpt %q", short)
	}

	same, _ := Excerpt(html, 100)
	if same != full {
		t.Fatalf("expected no truncation, got %q", same)
	}
}
