package handler

import (
	"context"
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/registry"
	"github.com/yndnr/restgate-go/internal/core/routing"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// Names of the built-in resources.
const (
	CountriesResource = "countries"
	CustomersResource = "customers"
	LanguageResource  = "language"
	UsersResource     = "users"
)

// Implementation identifiers of the built-in resources.
const (
	CountriesImpl = "Countries"
	CustomersImpl = "Customers"
	LanguageImpl  = "Language"
	LoginImpl     = "Login"
	UsersImpl     = "Users"
)

// Stores bundles the storage ports used by the built-in resources.
type Stores struct {
	Accounts  service.AccountStore
	Tokens    service.TokenStore
	Users     service.UserStore
	Customers service.CustomerStore
	Countries service.CountryStore
	Phrases   service.PhraseStore
}

// Resources configures the built-in resources.
type Resources struct {
	Workspace  string
	Stores     Stores
	Login      *service.LoginConfig
	MaxResults int
	Lang       string
	Now        service.Clock
	Responder  *Responder
}

// NewCatalog registers a service and a controller factory for every
// built-in resource under res.Workspace.
func NewCatalog(res Resources) *registry.Catalog {
	ids := routing.NewMapping(res.Workspace, nil)
	resp := res.Responder
	if resp == nil {
		resp = NewResponder(nil, false)
	}
	c := registry.NewCatalog()

	c.RegisterService(ids.ServiceID(LoginImpl), func(context.Context, registry.Locator) (any, error) {
		return service.NewLoginService(res.Stores.Accounts, res.Stores.Tokens, res.Login), nil
	})
	c.RegisterController(ids.ControllerID(LoginImpl), registry.Controller(
		func(_ context.Context, svc *service.LoginService, loc registry.Locator) (http.Handler, error) {
			return NewLoginController(svc, loc, resp), nil
		}))

	c.RegisterService(ids.ServiceID(UsersImpl), func(context.Context, registry.Locator) (any, error) {
		return service.NewUsersService(res.Stores.Users), nil
	})
	c.RegisterController(ids.ControllerID(UsersImpl), registry.Controller(
		func(_ context.Context, svc *service.UsersService, _ registry.Locator) (http.Handler, error) {
			return NewUsersController(svc, resp), nil
		}))

	c.RegisterService(ids.ServiceID(CustomersImpl), func(context.Context, registry.Locator) (any, error) {
		return service.NewCustomersService(res.Stores.Customers, res.MaxResults, res.Now), nil
	})
	c.RegisterController(ids.ControllerID(CustomersImpl), registry.Controller(
		func(_ context.Context, svc *service.CustomersService, _ registry.Locator) (http.Handler, error) {
			return NewCustomersController(svc, resp), nil
		}))

	c.RegisterService(ids.ServiceID(CountriesImpl), func(context.Context, registry.Locator) (any, error) {
		return service.NewCountriesService(res.Stores.Countries), nil
	})
	c.RegisterController(ids.ControllerID(CountriesImpl), registry.Controller(
		func(_ context.Context, svc *service.CountriesService, _ registry.Locator) (http.Handler, error) {
			return NewCountriesController(svc, resp), nil
		}))

	c.RegisterService(ids.ServiceID(LanguageImpl), func(context.Context, registry.Locator) (any, error) {
		return service.NewLanguageService(res.Stores.Phrases, res.Lang, resp.logger), nil
	})
	c.RegisterController(ids.ControllerID(LanguageImpl), registry.Controller(
		func(_ context.Context, svc *service.LanguageService, _ registry.Locator) (http.Handler, error) {
			return NewLanguageController(svc, resp), nil
		}))

	return c
}
