package cms

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/suntech-x/cmsadmin/internal/domain"
	"github.com/suntech-x/cmsadmin/pkg/endpoints"
	"github.com/suntech-x/cmsadmin/pkg/envelope"
	"github.com/suntech-x/cmsadmin/pkg/request"
)

// ErrNoToken is returned when a login response carries no token.
var ErrNoToken = errors.New("login response carried no token")

// Auth covers login, logout and the signed-in user.
type Auth struct {
	svc *Service
}

// Login exchanges credentials for a token and stores it.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := a.svc.check("credentials", creds); err != nil {
		return domain.LoginResult{}, err
	}

	raw, err := a.svc.client(false).Perform(ctx, endpoints.Login(), request.Options{
		Method: http.MethodPost,
		Body:   creds,
	})
	if err != nil {
		return domain.LoginResult{}, err
	}

	res, err := envelope.DecodeEntity[domain.LoginResult](raw)
	if err != nil {
		return domain.LoginResult{}, err
	}
	if strings.TrimSpace(res.Token) == "" {
		return domain.LoginResult{}, ErrNoToken
	}
	if err := a.svc.opts.Tokens.Set(res.Token); err != nil {
		return domain.LoginResult{}, fmt.Errorf("store token: %w", err)
	}

	a.svc.notify(ctx, "Success", "Login successful")
	return res, nil
}

// Logout forgets the stored token.
func (a *Auth) Logout() error {
	if err := a.svc.opts.Tokens.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Profile fetches the signed-in user. Failures are not notified.
func (a *Auth) Profile(ctx context.Context) (domain.User, error) {
	raw, err := a.svc.client(true).Perform(ctx, endpoints.Profile(), request.Options{Method: http.MethodGet})
	if err != nil {
		return domain.User{}, err
	}
	return envelope.DecodeEntity[domain.User](raw)
}

// Session reports whether the stored token still resolves to a user. Without a
// stored token no call is made.
func (a *Auth) Session(ctx context.Context) (domain.User, bool, error) {
	token, err := a.svc.opts.Tokens.Token(ctx)
	if err != nil {
		return domain.User{}, false, fmt.Errorf("read token: %w", err)
	}
	if strings.TrimSpace(token) == "" {
		return domain.User{}, false, nil
	}

	user, err := a.Profile(ctx)
	if err != nil {
		var reqErr *request.Error
		if errors.As(err, &reqErr) && !reqErr.Network {
			return domain.User{}, false, nil
		}
		return domain.User{}, false, err
	}
	return user, true, nil
}

// ChangePassword updates the signed-in user's password.
func (a *Auth) ChangePassword(ctx context.Context, in domain.PasswordChange) error {
	if err := a.svc.check("password change", in); err != nil {
		return err
	}
	_, err := a.svc.client(false).Perform(ctx, endpoints.ChangePassword(), request.Options{
		Method: http.MethodPost,
		Body:   in,
	})
	return err
}

// Users lists admin accounts.
type Users struct {
	svc *Service
}

// List returns one page of users.
func (u *Users) List(ctx context.Context, opts endpoints.ListOptions) (envelope.List[domain.User], error) {
	raw, err := u.svc.client(false).Perform(ctx, endpoints.Users(opts), request.Options{Method: http.MethodGet})
	if err != nil {
		return envelope.List[domain.User]{}, err
	}
	return envelope.DecodeList[domain.User](raw)
}
