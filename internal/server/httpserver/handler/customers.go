package handler

import (
	"net/http"
	"strconv"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// CustomersController serves customer records.
type CustomersController struct {
	*router
	svc *service.CustomersService
}

// NewCustomersController creates a CustomersController.
func NewCustomersController(svc *service.CustomersService, resp *Responder) *CustomersController {
	c := &CustomersController{router: newRouter(resp), svc: svc}
	c.handle("GET /{$}", c.list)
	c.handle("GET /search/{term}", c.search)
	c.handle("GET /{id}", c.get)
	c.handle("GET /{id}/{relation}", c.related)
	c.handle("POST /{$}", c.create)
	c.handle("PUT /{id}", c.update)
	c.handle("DELETE /{id}", c.delete)
	return c
}

func (c *CustomersController) list(w http.ResponseWriter, r *http.Request) error {
	rows, err := c.svc.List(r.Context())
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(rows))
	return nil
}

func (c *CustomersController) search(w http.ResponseWriter, r *http.Request) error {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.ErrInvalidArgument.WithDetails("offset must be an integer")
		}
		offset = n
	}

	res, err := c.svc.Search(r.Context(), r.PathValue("term"), offset)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (c *CustomersController) get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	cust, err := c.svc.Get(r.Context(), id)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, cust)
	return nil
}

// related serves GET /{id}/children. The relation is a wildcard because a
// literal second segment would conflict with GET /search/{term}.
func (c *CustomersController) related(w http.ResponseWriter, r *http.Request) error {
	if r.PathValue("relation") != "children" {
		return domain.ErrEndpointNotFound.WithDetails(r.Method + " " + r.URL.Path)
	}
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	rows, err := c.svc.Children(r.Context(), id)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, rows)
	return nil
}

func (c *CustomersController) create(w http.ResponseWriter, r *http.Request) error {
	var in domain.Customer
	if err := decodeBody(r, CustomersResource, &in); err != nil {
		return err
	}
	out, err := c.svc.Create(r.Context(), &in)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusCreated, out)
	return nil
}

func (c *CustomersController) update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	var in domain.Customer
	if err := decodeBody(r, CustomersResource, &in); err != nil {
		return err
	}
	out, err := c.svc.Update(r.Context(), id, &in)
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (c *CustomersController) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r, "id")
	if err != nil {
		return err
	}
	if err := c.svc.Delete(r.Context(), id); err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": id})
	return nil
}
