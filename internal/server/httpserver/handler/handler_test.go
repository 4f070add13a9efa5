package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"

	"github.com/yndnr/restgate-go/internal/core/domain"
	"github.com/yndnr/restgate-go/internal/telemetry/logger"
)

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"RG-PATH-4090", http.StatusConflict},
		{"RG-AUTH-4010", http.StatusUnauthorized},
		{"RG-AUTH-4030", http.StatusForbidden},
		{"RG-AUTH-4031", http.StatusForbidden},
		{"RG-ROUTE-4040", http.StatusNotFound},
		{"RG-ROUTE-4041", http.StatusNotFound},
		{"RG-ROUTE-4050", http.StatusMethodNotAllowed},
		{"RG-RES-4091", http.StatusConflict},
		{"RG-SYS-4290", http.StatusTooManyRequests},
		{"RG-ARG-4002", http.StatusBadRequest},
		{"RG-SYS-5001", http.StatusInternalServerError},
		{"RG-X-0200", http.StatusInternalServerError},
		{"RG-X-40", http.StatusInternalServerError},
		{"garbage", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := errorCodeToHTTPStatus(tt.code); got != tt.want {
				t.Errorf("errorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestResponder_WriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/9", nil)

	t.Run("domain error", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewResponder(logger.Discard(), false).WriteError(rec, req, domain.ErrRecordNotFound.WithDetails("customer 9"))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		if got := rec.Header().Get("X-Error-Code"); got != "RG-RES-4040" {
			t.Errorf("X-Error-Code = %q", got)
		}
		resp := decodeError(t, rec)
		if resp.StatusCode != 404 || resp.Code != "RG-RES-4040" || resp.Details != "customer 9" {
			t.Errorf("body = %+v", resp)
		}
		if resp.Stacktrace != "" {
			t.Errorf("stacktrace present without debug: %q", resp.Stacktrace)
		}
	})

	t.Run("plain error hides message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewResponder(logger.Discard(), false).WriteError(rec, req, errors.New("disk on fire"))

		resp := decodeError(t, rec)
		if rec.Code != http.StatusInternalServerError || resp.Code != "RG-SYS-5000" {
			t.Errorf("status = %d, body = %+v", rec.Code, resp)
		}
		if strings.Contains(rec.Body.String(), "disk on fire") {
			t.Error("internal error message leaked")
		}
	})

	t.Run("debug attaches stack", func(t *testing.T) {
		rec := httptest.NewRecorder()
		cause := pkgerrors.WithStack(errors.New("constraint failed"))
		NewResponder(logger.Discard(), true).WriteError(rec, req, domain.ErrStorageError.WithCause(cause))

		resp := decodeError(t, rec)
		if !strings.Contains(resp.Stacktrace, "constraint failed") {
			t.Errorf("stacktrace = %q, want cause message", resp.Stacktrace)
		}
		if !strings.Contains(resp.Stacktrace, "TestResponder_WriteError") {
			t.Errorf("stacktrace = %q, want caller frame", resp.Stacktrace)
		}
	})
}

func TestDecodeBody(t *testing.T) {
	type target struct {
		Name     string `json:"name"`
		ParentID int64  `json:"parent_customer_id,omitempty"`
	}

	tests := []struct {
		name        string
		contentType string
		body        string
		want        target
		wantErr     bool
	}{
		{"flat json", "application/json", `{"name":"Acme","parent_customer_id":3}`, target{"Acme", 3}, false},
		{"wrapped json", "application/json", `{"customers":{"name":"Acme"}}`, target{Name: "Acme"}, false},
		{"string number", "application/json", `{"name":"Acme","parent_customer_id":"7"}`, target{"Acme", 7}, false},
		{"flat form", "application/x-www-form-urlencoded", "name=Acme&parent_customer_id=4", target{"Acme", 4}, false},
		{"wrapped form", "application/x-www-form-urlencoded", "customers%5Bname%5D=Acme", target{Name: "Acme"}, false},
		{"empty body", "application/json", "", target{}, false},
		{"broken json", "application/json", `{"name":`, target{}, true},
		{"wrong type", "application/json", `{"parent_customer_id":"x"}`, target{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			var got target
			err := decodeBody(req, "customers", &got)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrBadRequest) {
					t.Errorf("decodeBody() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeBody() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("decodeBody() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeVarNames(t *testing.T) {
	bodies := []string{
		`["hello","token_invalid"]`,
		`{"language":["hello","token_invalid"]}`,
		`{"phrases":["hello","token_invalid"]}`,
	}
	for _, body := range bodies {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		names, err := decodeVarNames(req, LanguageResource)
		if err != nil {
			t.Fatalf("decodeVarNames(%s) error = %v", body, err)
		}
		if len(names) != 2 || names[0] != "hello" || names[1] != "token_invalid" {
			t.Errorf("decodeVarNames(%s) = %v", body, names)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.5:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.7")
	if got := ClientIP(req); got != "203.0.113.5" {
		t.Errorf("ClientIP() = %q, want peer address", got)
	}
	if got := ClientIP(WithClientIP(req, "198.51.100.7")); got != "198.51.100.7" {
		t.Errorf("ClientIP() after WithClientIP = %q", got)
	}
}

func TestResolveClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}
	tests := []struct {
		name    string
		trusted []netip.Prefix
		headers map[string]string
		remote  string
		want    string
	}{
		{"remote addr", nil, nil, "203.0.113.5:4000", "203.0.113.5"},
		{"ipv6 remote addr", nil, nil, "[2001:db8::1]:4000", "2001:db8::1"},
		{"no port", nil, nil, "203.0.113.9", "203.0.113.9"},
		{"untrusted forwarded for", nil, map[string]string{"X-Forwarded-For": "198.51.100.7"}, "203.0.113.9:80", "203.0.113.9"},
		{"untrusted real ip", proxies, map[string]string{"X-Real-IP": "198.51.100.8"}, "203.0.113.9:80", "203.0.113.9"},
		{"trusted forwarded for", proxies, map[string]string{"X-Forwarded-For": "198.51.100.7"}, "10.0.0.1:80", "198.51.100.7"},
		{"rightmost untrusted hop", proxies, map[string]string{"X-Forwarded-For": "192.0.2.1, 198.51.100.7, 10.0.0.2"}, "10.0.0.1:80", "198.51.100.7"},
		{"all hops trusted", proxies, map[string]string{"X-Forwarded-For": "10.0.0.3, 10.0.0.2"}, "10.0.0.1:80", "10.0.0.3"},
		{"garbage hop", proxies, map[string]string{"X-Forwarded-For": "nonsense"}, "10.0.0.1:80", "10.0.0.1"},
		{"trusted real ip", proxies, map[string]string{"X-Real-IP": "198.51.100.8"}, "10.0.0.1:80", "198.51.100.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := ResolveClientIP(req, tt.trusted); got != tt.want {
				t.Errorf("ResolveClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	resp := NewResponder(logger.Discard(), false)

	rec := httptest.NewRecorder()
	NewHealth(resp, nil).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"healthy"`) {
		t.Errorf("health = %d %s", rec.Code, rec.Body.String())
	}

	h := NewHealth(resp, map[string]ReadyCheck{
		"storage": func(ctx context.Context) error { return nil },
		"tokens":  func(ctx context.Context) error { return errors.New("closed") },
	})
	rec = httptest.NewRecorder()
	h.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"tokens":"closed"`) {
		t.Errorf("ready body = %s", rec.Body.String())
	}
}
