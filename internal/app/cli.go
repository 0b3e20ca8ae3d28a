package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/suntech-x/cmsadmin/internal/cms"
	"github.com/suntech-x/cmsadmin/internal/config"
	"github.com/suntech-x/cmsadmin/internal/credentials"
	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/internal/logger"
	"github.com/suntech-x/cmsadmin/internal/mirror"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/httpclient"
	"github.com/suntech-x/cmsadmin/pkg/notify"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

// Usage lists the supported commands.
const Usage = `usage: cmsctl <command> [flags]

commands:
  login --email E --password P
  logout
  profile
  change-password --old-password O --new-password N --confirm-password N
  list <category|industry|product|post|users> [--page N --limit N --q Q --type T]
  get <resource> <id>
  create <resource> --file payload.json
  update <resource> <id> --file payload.json
  delete <resource> <id>
  upload <image|document> <path>
  image-url <id> [--size small|medium|large]
  mirror <resource>`

// Invocation holds command flags and positional arguments.
type Invocation struct {
	Args []string

	Page  int
	Limit int
	Query string
	Type  string
	File  string
	Size  string

	Email           string
	Password        string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// CommandFlags registers command flags on fs and returns the Invocation they fill.
func CommandFlags(fs *pflag.FlagSet) *Invocation {
	inv := &Invocation{}
	fs.IntVar(&inv.Page, "page", 1, "page number for list")
	fs.IntVar(&inv.Limit, "limit", 10, "page size for list")
	fs.StringVar(&inv.Query, "q", "", "search query for list")
	fs.StringVar(&inv.Type, "type", "", "category type filter (product|industry)")
	fs.StringVarP(&inv.File, "file", "f", "", "JSON payload file for create/update; - reads stdin")
	fs.StringVar(&inv.Size, "size", string(endpoints.SizeMedium), "image size (small|medium|large)")
	fs.StringVar(&inv.Email, "email", "", "login email")
	fs.StringVar(&inv.Password, "password", "", "login password (defaults to $CMS_PASSWORD)")
	fs.StringVar(&inv.OldPassword, "old-password", "", "current password")
	fs.StringVar(&inv.NewPassword, "new-password", "", "new password")
	fs.StringVar(&inv.ConfirmPassword, "confirm-password", "", "new password again")
	return inv
}

// CLI wires config, credentials, notifications and the CMS service.
type CLI struct {
	cfg    *config.Config
	log    logger.Logger
	tokens credentials.Store
	fanout *notify.Fanout
	svc    *cms.Service
	out    io.Writer
	in     io.Reader
}

// NewCLI builds the runtime from cfg.
func NewCLI(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*CLI, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if out == nil {
		out = os.Stdout
	}

	key := cfg.TokenKey
	if strings.EqualFold(strings.TrimSpace(cfg.TokenStore), "env") {
		key = cfg.TokenEnv
	}
	tokens, err := credentials.NewStore(cfg.TokenStore, cfg.BBoltPath, key, credentials.Options{TTL: cfg.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}

	fanout, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		tokens.Close()
		return nil, err
	}

	transport := httpclient.NewRestyClient(httpclient.Options{
		Timeout:       cfg.RequestTimeout,
		RatePerSecond: cfg.RateLimitPerSecond,
	})
	svc := cms.New(transport, cms.Options{
		BaseURL:              cfg.BaseURL,
		ImageBaseURL:         cfg.ImageBaseURL,
		Tokens:               tokens,
		Notifier:             fanout,
		HideNotifications:    cfg.HideNotifications,
		ResolveContentImages: cfg.ResolveContentImages,
		Log:                  log,
	})

	return &CLI{cfg: cfg, log: log, tokens: tokens, fanout: fanout, svc: svc, out: out, in: os.Stdin}, nil
}

// buildNotifier loads the sinks file, or falls back to a single log sink.
func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (*notify.Fanout, error) {
	sinkCfgs := []notify.SinkConfig{{ID: notify.TypeLog, Type: notify.TypeLog}}
	if path := strings.TrimSpace(cfg.NotifiersFile); path != "" {
		reg, err := notify.LoadRegistry(path)
		if err != nil {
			return nil, fmt.Errorf("load notifiers registry: %w", err)
		}
		sinkCfgs = reg.Enabled()
		log.DebugObj("notifiers registry loaded", "notifiers", sinkCfgs)
	}

	sinks, err := notify.BuildAll(ctx, notify.DefaultRegistry(), sinkCfgs, log)
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	return notify.NewFanout(sinks), nil
}

// Close releases the token store and notifier sinks.
func (c *CLI) Close() error {
	if c == nil {
		return nil
	}
	return errors.Join(c.tokens.Close(), c.fanout.Close())
}

// Run executes one command.
func (c *CLI) Run(ctx context.Context, inv *Invocation) error {
	if inv == nil || len(inv.Args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}
	cmd, args := inv.Args[0], inv.Args[1:]

	c.log.DebugObj("command starting", "command", map[string]any{"name": cmd, "args": args})

	switch cmd {
	case "login":
		return c.login(ctx, inv)
	case "logout":
		if err := c.svc.Auth.Logout(); err != nil {
			return err
		}
		return c.print(map[string]any{"logged_out": true})
	case "profile":
		user, ok, err := c.svc.Auth.Session(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("not signed in")
		}
		return c.print(user)
	case "change-password":
		err := c.svc.Auth.ChangePassword(ctx, domain.PasswordChange{
			OldPassword:     inv.OldPassword,
			NewPassword:     inv.NewPassword,
			ConfirmPassword: inv.ConfirmPassword,
		})
		if err != nil {
			return err
		}
		return c.print(map[string]any{"password_changed": true})
	case "list":
		return c.list(ctx, inv, args)
	case "get", "create", "update", "delete":
		return c.crud(ctx, cmd, inv, args)
	case "upload":
		return c.upload(ctx, args)
	case "image-url":
		if len(args) != 1 {
			return fmt.Errorf("%w: image-url <id>", ErrUsage)
		}
		return c.print(map[string]string{"url": c.svc.Images().Resolve(args[0], endpoints.ParseSize(inv.Size))})
	case "mirror":
		return c.mirror(ctx, args)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (c *CLI) login(ctx context.Context, inv *Invocation) error {
	password := inv.Password
	if password == "" {
		password = os.Getenv("CMS_PASSWORD")
	}
	if _, err := c.svc.Auth.Login(ctx, domain.Credentials{Email: inv.Email, Password: password}); err != nil {
		return err
	}
	return c.print(map[string]any{"logged_in": true, "email": strings.TrimSpace(inv.Email)})
}

func (c *CLI) list(ctx context.Context, inv *Invocation, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list <resource>", ErrUsage)
	}
	opts := endpoints.ListOptions{Page: inv.Page, Limit: inv.Limit, Query: inv.Query, Type: inv.Type}
	if args[0] == "users" || args[0] == "user" {
		list, err := c.svc.Users.List(ctx, opts)
		if err != nil {
			return err
		}
		return c.print(list)
	}

	ops, err := c.resource(args[0])
	if err != nil {
		return err
	}
	out, err := ops.list(ctx, opts)
	if err != nil {
		return err
	}
	return c.print(out)
}

func (c *CLI) crud(ctx context.Context, cmd string, inv *Invocation, args []string) error {
	want := map[string]int{"get": 2, "create": 1, "update": 2, "delete": 2}[cmd]
	if len(args) != want {
		return fmt.Errorf("%w: %s expects %d argument(s)", ErrUsage, cmd, want)
	}
	ops, err := c.resource(args[0])
	if err != nil {
		return err
	}

	var out any
	switch cmd {
	case "get":
		out, err = ops.get(ctx, args[1])
	case "delete":
		if err = ops.remove(ctx, args[1]); err == nil {
			out = map[string]any{"deleted": args[1]}
		}
	case "create", "update":
		payload, readErr := c.readPayload(inv.File)
		if readErr != nil {
			return readErr
		}
		if cmd == "create" {
			out, err = ops.create(ctx, payload)
		} else {
			out, err = ops.update(ctx, args[1], payload)
		}
	}
	if err != nil {
		return err
	}
	return c.print(out)
}

func (c *CLI) upload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: upload <image|document> <path>", ErrUsage)
	}
	f, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	switch args[0] {
	case "image":
		img, err := c.svc.Uploads.Image(ctx, f.Name(), f)
		if err != nil {
			return err
		}
		return c.print(map[string]string{"id": img.ID, "url": c.svc.Images().Medium(img.ID)})
	case "document":
		doc, err := c.svc.Uploads.Document(ctx, f.Name(), f)
		if err != nil {
			return err
		}
		return c.print(doc)
	default:
		return fmt.Errorf("%w: upload kind must be image or document", ErrUsage)
	}
}

func (c *CLI) mirror(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: mirror <resource>", ErrUsage)
	}
	resource, ok := endpoints.ParseResource(args[0])
	if !ok {
		return fmt.Errorf("%w: unknown resource %q", ErrUsage, args[0])
	}

	items, err := c.svc.Raw(resource).All(ctx)
	if err != nil {
		return err
	}

	m, err := mirror.Open(c.cfg.MirrorDriver, c.cfg.MirrorDSN)
	if err != nil {
		return fmt.Errorf("open mirror: %w", err)
	}
	defer m.Close()

	saved, err := m.Save(ctx, string(resource), items)
	if err != nil {
		return err
	}
	total, err := m.Count(ctx, string(resource))
	if err != nil {
		return err
	}

	c.log.InfoObj("mirror synced", "mirror_meta", map[string]any{
		"kind":    resource,
		"fetched": len(items),
		"saved":   saved,
		"total":   total,
	})
	return c.print(map[string]any{"kind": resource, "saved": saved, "total": total})
}

func (c *CLI) readPayload(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: --file is required", ErrUsage)
	}
	var (
		raw []byte
		err error
	)
	if path == "-" {
		raw, err = io.ReadAll(c.in)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return raw, nil
}

func (c *CLI) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
