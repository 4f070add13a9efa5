package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/yndnr/restgate-go/internal/core/domain"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type clientIPKey struct{}

// WithClientIP records the resolved client address on the request.
func WithClientIP(r *http.Request, ip string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), clientIPKey{}, ip))
}

// ClientIP returns the address recorded by WithClientIP, or the peer
// address when none was recorded. Forwarding headers are never read here.
func ClientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return peerIP(r)
}

// ResolveClientIP returns the client address of r. X-Forwarded-For and
// X-Real-IP are honoured only when the peer sits in a trusted network.
// X-Forwarded-For is walked from the right and the first untrusted hop
// wins.
func ResolveClientIP(r *http.Request, trusted []netip.Prefix) string {
	peer := peerIP(r)
	if !inPrefixes(peer, trusted) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if _, err := netip.ParseAddr(hop); err != nil {
				break
			}
			if !inPrefixes(hop, trusted) || i == 0 {
				return hop
			}
		}
		return peer
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if _, err := netip.ParseAddr(xri); err == nil {
			return xri
		}
	}
	return peer
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func inPrefixes(ip string, prefixes []netip.Prefix) bool {
	if len(prefixes) == 0 {
		return false
	}
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range prefixes {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// decodeBody decodes the request body into dst. The body may be JSON or a
// form. Fields may sit at the top level or be wrapped under the resource
// name, so {"login": {"email": "a"}} and {"email": "a"} decode alike, as do
// login[email]=a and email=a. Scalar types are converted loosely: "12"
// decodes into an int64 field.
func decodeBody(r *http.Request, resource string, dst any) error {
	raw, err := bodyValue(r, resource)
	if err != nil {
		return err
	}
	return decodeValue(raw, dst)
}

// bodyValue reads the request body and unwraps the resource envelope.
func bodyValue(r *http.Request, resource string) (any, error) {
	raw, err := readBody(r)
	if err != nil {
		return nil, domain.ErrBadRequest.WithDetails("invalid request body").WithCause(err)
	}
	if m, ok := raw.(map[string]any); ok {
		if inner, ok := m[resource]; ok {
			raw = inner
		}
	}
	return raw, nil
}

func decodeValue(raw, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.ErrBadRequest.WithDetails(err.Error())
	}
	return nil
}

func readBody(r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, nil
	}
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		return formValues(r.PostForm), nil
	}

	var v any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// formValues nests bracketed keys: a[b]=1 becomes {"a": {"b": "1"}} and
// a[]=1&a[]=2 becomes {"a": ["1", "2"]}.
func formValues(form map[string][]string) map[string]any {
	out := make(map[string]any, len(form))
	for key, values := range form {
		outer, inner, nested := splitFormKey(key)
		if !nested {
			out[key] = formValue(key, values)
			continue
		}
		if inner == "" {
			out[outer] = toAny(values)
			continue
		}
		m, ok := out[outer].(map[string]any)
		if !ok {
			m = make(map[string]any)
			out[outer] = m
		}
		m[inner] = formValue(inner, values)
	}
	return out
}

func splitFormKey(key string) (outer, inner string, nested bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

func formValue(key string, values []string) any {
	if len(values) == 1 && !strings.HasSuffix(key, "[]") {
		return values[0]
	}
	return toAny(values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// pathID parses the {name} path value as a positive id.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidArgument.WithDetails(name + " must be a positive integer")
	}
	return id, nil
}
