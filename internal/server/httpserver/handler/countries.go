package handler

import (
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/service"
)

// CountriesController serves countries and their states.
type CountriesController struct {
	*router
	svc *service.CountriesService
}

// NewCountriesController creates a CountriesController.
func NewCountriesController(svc *service.CountriesService, resp *Responder) *CountriesController {
	c := &CountriesController{router: newRouter(resp), svc: svc}
	c.handle("GET /{$}", c.list)
	c.handle("GET /states/{code}", c.states)
	return c
}

func (c *CountriesController) list(w http.ResponseWriter, r *http.Request) error {
	rows, err := c.svc.List(r.Context())
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, nonNil(rows))
	return nil
}

func (c *CountriesController) states(w http.ResponseWriter, r *http.Request) error {
	rows, err := c.svc.States(r.Context(), r.PathValue("code"))
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, rows)
	return nil
}
