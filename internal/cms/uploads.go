package cms

import (
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/envelope"
	"github.com/suntech-x/cmsadmin/pkg/request"
)

const (
	uploadField        = "file"
	defaultContentType = "application/octet-stream"
)

// Uploads sends images and documents as multipart forms.
type Uploads struct {
	svc *Service
}

// Image uploads an image and returns its reference id.
func (u *Uploads) Image(ctx context.Context, name string, r io.Reader) (domain.UploadedImage, error) {
	raw, err := u.upload(ctx, endpoints.UploadImage(), name, r)
	if err != nil {
		return domain.UploadedImage{}, err
	}
	return envelope.DecodeEntity[domain.UploadedImage](raw)
}

// Document uploads a document and returns its download link.
func (u *Uploads) Document(ctx context.Context, name string, r io.Reader) (domain.UploadedDocument, error) {
	raw, err := u.upload(ctx, endpoints.UploadDocument(), name, r)
	if err != nil {
		return domain.UploadedDocument{}, err
	}
	return envelope.DecodeEntity[domain.UploadedDocument](raw)
}

func (u *Uploads) upload(ctx context.Context, path, name string, r io.Reader) ([]byte, error) {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = defaultContentType
	}
	form := &request.Multipart{
		Files: []request.File{{Field: uploadField, Name: filepath.Base(name), ContentType: ct, Reader: r}},
	}
	return u.svc.client(false).Perform(ctx, path, request.Options{Method: http.MethodPost, Body: form})
}
