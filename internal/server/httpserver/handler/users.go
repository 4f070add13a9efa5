package handler

import (
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// UsersController serves user profiles and the role catalog.
type UsersController struct {
	*router
	svc *service.UsersService
}

// NewUsersController creates a UsersController.
func NewUsersController(svc *service.UsersService, resp *Responder) *UsersController {
	c := &UsersController{router: newRouter(resp), svc: svc}
	c.handle("GET /list", c.list)
	c.handle("GET /getUsersList", c.list)
	c.handle("GET /roles", c.roles)
	c.handle("GET /by-role/{id}", c.byRole)
	c.handle("GET /search/{term}", c.search)
	c.handle("GET /{id}", c.get)
	c.handle("POST /check", c.check)
	c.handle("POST /checkUser", c.check)
	return c
}

func (c *UsersController) list(w http.ResponseWriter, r *http.Request) error {
	users, err := c.svc.List(r.Context())
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(users))
	return nil
}

func (c *UsersController) roles(w http.ResponseWriter, r *http.Request) error {
	roles, err := c.svc.Roles(r.Context())
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(roles))
	return nil
}

func (c *UsersController) byRole(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	users, err := c.svc.ListByRole(r.Context(), domain.Role(id))
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(users))
	return nil
}

func (c *UsersController) search(w http.ResponseWriter, r *http.Request) error {
	users, err := c.svc.Search(r.Context(), r.PathValue("term"))
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(users))
	return nil
}

func (c *UsersController) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	u, err := c.svc.GetByID(r.Context(), id)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, u)
	return nil
}

func (c *UsersController) check(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, UsersResource, &req); err != nil {
		return err
	}
	exists, err := c.svc.Exists(r.Context(), req.Username)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, map[string]bool{"exists": exists})
	return nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
