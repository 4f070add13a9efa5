package handler

import (
	"context"
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/gate"
	"github.com/yndnr/restgate-go/internal/core/registry"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// HeaderPublicKey carries the caller's public key on login.
const HeaderPublicKey = "X-Requested-With"

type loginRequest struct {
	Email string `json:"email"`
	Pass  string `json:"pass"`
}

// LoginController issues tokens and validates them for the gate.
//
//	POST /login           {"email", "pass"} + X-Requested-With -> {"token"}
//	POST /login/language  ["var_name", ...] -> {"var_name": "phrase"}
type LoginController struct {
	*router
	svc *service.LoginService
	loc registry.Locator
}

// NewLoginController creates a LoginController. Users and phrases are
// reached through loc.
func NewLoginController(svc *service.LoginService, loc registry.Locator, resp *Responder) *LoginController {
	c := &LoginController{
		router: newRouter(resp),
		svc:    svc,
		loc:    loc,
	}
	c.handle("POST /{$}", c.login)
	c.handle("POST /language", c.phrases)
	return c
}

func (c *LoginController) login(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := decodeBody(r, gate.LoginResource, &req); err != nil {
		return domain.ErrAuthFailure
	}

	token, err := c.svc.Login(r.Context(), &service.LoginRequest{
		Email:     req.Email,
		PublicKey: r.Header.Get(HeaderPublicKey),
		Pass:      req.Pass,
		RemoteIP:  ClientIP(r),
	})
	if err != nil {
		return err
	}

	c.resp.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
	return nil
}

func (c *LoginController) phrases(w http.ResponseWriter, r *http.Request) error {
	names, err := decodeVarNames(r, gate.LoginResource)
	if err != nil {
		return err
	}

	lang, err := registry.ServiceAs[*service.LanguageService](r.Context(), c.loc, LanguageResource)
	if err != nil {
		return err
	}
	out, err := lang.Phrases(r.Context(), names, "")
	if err != nil {
		return err
	}

	c.resp.WriteJSON(w, http.StatusOK, out)
	return nil
}

// ValidateToken implements gate.TokenValidator. It resolves the owner of a
// live token through the users resource.
func (c *LoginController) ValidateToken(ctx context.Context, token, ip string) (*domain.UserContext, error) {
	t, err := c.svc.ValidateToken(ctx, token, ip)
	if err != nil {
		return nil, err
	}

	users, err := registry.ServiceAs[*service.UsersService](ctx, c.loc, UsersResource)
	if err != nil {
		return nil, err
	}
	u, err := users.GetByID(ctx, t.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.UserContext{
		UserID: u.ID,
		Lang:   u.Lang,
		Role:   u.Role,
		User:   u,
	}, nil
}
