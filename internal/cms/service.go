// Package cms exposes typed operations over the CMS admin API. Every call goes
// through its own request.Client so outcomes never leak between operations.
package cms

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/suntech-x/cmsadmin/internal/credentials"
	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/internal/logger"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/httpclient"
	"github.com/suntech-x/cmsadmin/pkg/notify"
	"github.com/suntech-x/cmsadmin/pkg/request"
)

// Options configures a Service.
type Options struct {
	BaseURL           string
	ImageBaseURL      string
	Tokens            credentials.Store
	Notifier          notify.Notifier
	HideNotifications bool

	// ResolveContentImages rewrites bare image ids in post content into image
	// URLs before create and update. Off by default: content is sent as written.
	ResolveContentImages bool
	Log                  logger.Logger
}

// Service groups the resource operations.
type Service struct {
	transport httpclient.Client
	opts      Options
	images    endpoints.Images
	validate  *validator.Validate
	log       logger.Logger

	Auth       *Auth
	Users      *Users
	Categories *Collection[domain.Category]
	Industries *Collection[domain.Industry]
	Products   *Collection[domain.Product]
	Posts      *Collection[domain.Post]
	Uploads    *Uploads
}

// New wires a Service over transport.
func New(transport httpclient.Client, opts Options) *Service {
	if opts.Tokens == nil {
		opts.Tokens = credentials.NewMemoryStore(credentials.Options{})
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.NewLogNotifier(logger.Ensure(opts.Log))
	}
	imageBase := opts.ImageBaseURL
	if strings.TrimSpace(imageBase) == "" {
		imageBase = opts.BaseURL
	}

	s := &Service{
		transport: transport,
		opts:      opts,
		images:    endpoints.NewImages(imageBase),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		log:       logger.Ensure(opts.Log),
	}

	s.Auth = &Auth{svc: s}
	s.Users = &Users{svc: s}
	s.Categories = newCollection[domain.Category](s, endpoints.Category, nil)
	s.Industries = newCollection[domain.Industry](s, endpoints.Industry, nil)
	s.Products = newCollection[domain.Product](s, endpoints.Product, nil)
	var preparePost func(*domain.Post) error
	if opts.ResolveContentImages {
		preparePost = s.preparePost
	}
	s.Posts = newCollection(s, endpoints.Post, preparePost)
	s.Uploads = &Uploads{svc: s}
	return s
}

// Images returns the image URL catalog.
func (s *Service) Images() endpoints.Images { return s.images }

// Raw returns an untyped collection for resource, used for mirroring.
func (s *Service) Raw(resource endpoints.Resource) *Collection[RawItem] {
	return newCollection[RawItem](s, resource, nil)
}

// client builds a fresh request client. hide forces notifications off.
func (s *Service) client(hide bool) *request.Client {
	return request.New(s.transport,
		request.WithBaseURL(s.opts.BaseURL),
		request.WithTokenSource(s.opts.Tokens),
		request.WithNotifier(s.opts.Notifier),
		request.WithHiddenNotifications(hide || s.opts.HideNotifications),
		request.WithLogger(s.log),
	)
}

// notify emits an informational notification, honoring the hide flag.
func (s *Service) notify(ctx context.Context, title, description string) {
	if s.opts.HideNotifications {
		return
	}
	n := notify.Notification{
		Variant:     notify.VariantDefault,
		Title:       title,
		Description: description,
		At:          time.Now().UTC(),
	}
	if err := s.opts.Notifier.Notify(ctx, n); err != nil {
		s.log.WarnObj("notification not delivered", "notify_error", err.Error())
	}
}

// check validates struct inputs; other values pass through.
func (s *Service) check(what string, v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return fmt.Errorf("invalid %s: nil value", what)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	return nil
}
