// Package endpoints maps logical API operations to relative request paths.
//
// Every function here is pure: no I/O, no validation. Optional filters that are
// absent serialize to an empty query value so the key is always present.
package endpoints

import (
	"fmt"
	"net/url"
	"strings"
)

// ListOptions carries pagination and filters for list endpoints.
type ListOptions struct {
	Page  int
	Limit int
	Query string
	// Type is only honored by category listings.
	Type string
}

const (
	loginPath          = "api/v1/login"
	changePasswordPath = "api/v1/user/change-password"
	profilePath        = "api/v1/profile"
	usersPath          = "api/v1/users"
	uploadImagePath    = "upload/image"
	uploadDocumentPath = "upload/document"
)

// Resource names a CRUD collection exposed under /{name}.
type Resource string

const (
	Category Resource = "category"
	Industry Resource = "industry"
	Product  Resource = "product"
	Post     Resource = "post"
)

// Resources lists every CRUD collection in catalog order.
var Resources = []Resource{Category, Industry, Product, Post}

// ParseResource resolves a resource by name, accepting simple plurals.
func ParseResource(name string) (Resource, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "category", "categories":
		return Category, true
	case "industry", "industries":
		return Industry, true
	case "product", "products":
		return Product, true
	case "post", "posts":
		return Post, true
	}
	return "", false
}

// Login is the credential exchange endpoint.
func Login() string { return loginPath }

// ChangePassword updates the signed-in user's password.
func ChangePassword() string { return changePasswordPath }

// Profile returns the signed-in user.
func Profile() string { return profilePath }

// Users lists users.
func Users(opts ListOptions) string {
	return fmt.Sprintf("%s?page=%d&limit=%d&q=%s", usersPath, opts.Page, opts.Limit, url.QueryEscape(opts.Query))
}

// UploadImage accepts a multipart image under the "file" field.
func UploadImage() string { return uploadImagePath }

// UploadDocument accepts a multipart document under the "file" field.
func UploadDocument() string { return uploadDocumentPath }

// List returns the paginated listing path for r. Categories additionally carry a type filter.
func (r Resource) List(opts ListOptions) string {
	path := fmt.Sprintf("%s/list?page=%d&limit=%d&q=%s", r, opts.Page, opts.Limit, url.QueryEscape(opts.Query))
	if r == Category {
		path += "&type=" + url.QueryEscape(opts.Type)
	}
	return path
}

// Create is the collection path used for POST.
func (r Resource) Create() string { return string(r) }

// All returns every item without pagination.
func (r Resource) All() string { return string(r) }

// Detail, Update and Delete address a single item.
func (r Resource) Detail(id any) string { return r.item(id) }
func (r Resource) Update(id any) string { return r.item(id) }
func (r Resource) Delete(id any) string { return r.item(id) }

// item interpolates id (string or number) verbatim.
func (r Resource) item(id any) string {
	return fmt.Sprintf("%s/%v", r, id)
}
