package endpoints

import "testing"

func TestListOmittedFiltersKeepEmptyKeys(t *testing.T) {
	got := Category.List(ListOptions{Page: 1, Limit: 10})
	want := "category/list?page=1&limit=10&q=&type="
	if got != want {
		t.Fatalf("Category.List = %q, want %q", got, want)
	}

	if got := Users(ListOptions{Page: 2, Limit: 5}); got != "api/v1/users?page=2&limit=5&q=" {
		t.Fatalf("Users = %q", got)
	}

	for _, r := range []Resource{Industry, Product, Post} {
		want := string(r) + "/list?page=1&limit=20&q="
		if got := r.List(ListOptions{Page: 1, Limit: 20}); got != want {
			t.Fatalf("%s.List = %q, want %q", r, got, want)
		}
	}
}

func TestListEscapesFilterValues(t *testing.T) {
	got := Category.List(ListOptions{Page: 1, Limit: 10, Query: "máy bơm", Type: "product"})
	want := "category/list?page=1&limit=10&q=m%C3%A1y+b%C6%A1m&type=product"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestListPassesThroughInvalidPagination(t *testing.T) {
	if got := Product.List(ListOptions{Page: -1, Limit: 0}); got != "product/list?page=-1&limit=0&q=" {
		t.Fatalf("got %q", got)
	}
}

func TestItemPaths(t *testing.T) {
	if got := Category.Detail("12"); got != "category/12" {
		t.Fatalf("Detail = %q", got)
	}
	if got := Industry.Update(7); got != "industry/7" {
		t.Fatalf("Update = %q", got)
	}
	if got := Product.Delete(int64(99)); got != "product/99" {
		t.Fatalf("Delete = %q", got)
	}
	if Post.Create() != "post" || Post.All() != "post" {
		t.Fatalf("unexpected collection paths")
	}
}

func TestStaticPaths(t *testing.T) {
	cases := map[string]string{
		Login():          "api/v1/login",
		ChangePassword(): "api/v1/user/change-password",
		Profile():        "api/v1/profile",
		UploadImage():    "upload/image",
		UploadDocument(): "upload/document",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestParseResource(t *testing.T) {
	if r, ok := ParseResource("Categories"); !ok || r != Category {
		t.Fatalf("ParseResource(Categories) = %q, %v", r, ok)
	}
	if _, ok := ParseResource("widgets"); ok {
		t.Fatalf("expected unknown resource")
	}
}

func TestImageURLs(t *testing.T) {
	img := NewImages("https://img.example.com/")
	if got := img.Small("abc"); got != "https://img.example.com/abc?size=small" {
		t.Fatalf("Small = %q", got)
	}
	if got := img.Medium("abc"); got != "https://img.example.com/abc?size=medium" {
		t.Fatalf("Medium = %q", got)
	}
	if got := img.Large("abc"); got != "https://img.example.com/abc?size=large" {
		t.Fatalf("Large = %q", got)
	}
}

func TestImageResolveKeepsAbsoluteRefs(t *testing.T) {
	img := NewImages("https://img.example.com")
	if got := img.Resolve("https://cdn.example.com/a.png", SizeMedium); got != "https://cdn.example.com/a.png" {
		t.Fatalf("Resolve absolute = %q", got)
	}
	if got := img.Resolve("abc", SizeLarge); got != "https://img.example.com/abc?size=large" {
		t.Fatalf("Resolve id = %q", got)
	}
}

func TestJoinUsesSingleSlash(t *testing.T) {
	cases := [][3]string{
		{"http://localhost:8000", "category", "http://localhost:8000/category"},
		{"http://localhost:8000/", "/category", "http://localhost:8000/category"},
		{"http://localhost:8000//", "//category", "http://localhost:8000/category"},
	}
	for _, c := range cases {
		if got := Join(c[0], c[1]); got != c[2] {
			t.Fatalf("Join(%q, %q) = %q, want %q", c[0], c[1], got, c[2])
		}
	}
}

func TestParseSizeDefaultsToMedium(t *testing.T) {
	if ParseSize("LARGE") != SizeLarge || ParseSize("") != SizeMedium {
		t.Fatalf("unexpected ParseSize results")
	}
}
