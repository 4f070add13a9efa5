package handler

import (
	"net/http"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/core/gate"
	"github.com/yndnr/restgate-go/internal/core/service"
)

// LanguageController serves translated phrases in the caller's language.
type LanguageController struct {
	*router
	svc *service.LanguageService
}

// NewLanguageController creates a LanguageController.
func NewLanguageController(svc *service.LanguageService, resp *Responder) *LanguageController {
	c := &LanguageController{router: newRouter(resp), svc: svc}
	c.handle("GET /{$}", c.all)
	c.handle("GET /phrases", c.all)
	c.handle("POST /{$}", c.add)
	c.handle("POST /phrases", c.byList)
	c.handle("POST /getPhrases", c.byList)
	return c
}

func (c *LanguageController) all(w http.ResponseWriter, r *http.Request) error {
	out, err := c.svc.All(r.Context(), userLang(r))
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (c *LanguageController) byList(w http.ResponseWriter, r *http.Request) error {
	names, err := decodeVarNames(r, LanguageResource)
	if err != nil {
		return err
	}
	out, err := c.svc.Phrases(r.Context(), names, userLang(r))
	if err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (c *LanguageController) add(w http.ResponseWriter, r *http.Request) error {
	var p domain.Phrase
	if err := decodeBody(r, LanguageResource, &p); err != nil {
		return err
	}
	if p.Lang == "" {
		p.Lang = userLang(r)
	}
	if err := c.svc.AddPhrase(r.Context(), &p); err != nil {
		return err
	}
	c.resp.WriteJSON(w, http.StatusCreated, p)
	return nil
}

// decodeVarNames reads a list of phrase keys. The list may be the whole
// body, sit under the resource name, or sit under "phrases".
func decodeVarNames(r *http.Request, resource string) ([]string, error) {
	raw, err := bodyValue(r, resource)
	if err != nil {
		return nil, err
	}
	if m, ok := raw.(map[string]any); ok {
		if list, ok := m["phrases"]; ok {
			raw = list
		}
	}

	var names []string
	if err := decodeValue(raw, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// userLang returns the language of the authorized caller, or "" for
// anonymous requests.
func userLang(r *http.Request) string {
	if u, ok := gate.UserFromContext(r.Context()); ok {
		return u.Lang
	}
	return ""
}
