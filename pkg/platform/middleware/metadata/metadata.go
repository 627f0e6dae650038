// Package metadata captures where a request came from: the client IP and a
// parsed summary of its User-Agent.
package metadata

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Client describes the caller as seen at the edge.
type Client struct {
	IP        string
	UserAgent string
	Device    string
	Bot       bool
}

type contextKeyClient struct{}

// ClientMetadata resolves the caller's IP and device and stores them on the
// request context. Apply it before anything that logs or persists them.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := r.Header.Get("User-Agent")
		client := Client{
			IP:        ClientIPFromRequest(r),
			UserAgent: ua,
		}
		client.Device, client.Bot = Describe(ua)
		next.ServeHTTP(w, r.WithContext(WithClient(r.Context(), client)))
	})
}

// WithClient injects client metadata into a context.
// Useful for service unit tests that don't run the full HTTP middleware chain.
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, client)
}

// FromContext returns the client metadata, or the zero Client.
func FromContext(ctx context.Context) Client {
	client, _ := ctx.Value(contextKeyClient{}).(Client)
	return client
}

// Describe summarises a User-Agent as "<browser> <version> on <os>", adding
// "(mobile)" for handsets. Empty input yields an empty description.
func Describe(userAgent string) (device string, bot bool) {
	if strings.TrimSpace(userAgent) == "" {
		return "", false
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	if major, _, found := strings.Cut(version, "."); found {
		version = major
	}

	device = strings.TrimSpace(name + " " + version)
	if os := ua.OS(); os != "" {
		device = fmt.Sprintf("%s on %s", device, os)
	}
	if ua.Mobile() {
		device += " (mobile)"
	}
	return device, ua.Bot()
}

// ClientIPFromRequest extracts the real client IP from the request, handling proxies and load balancers.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For lists client, proxy1, proxy2...; the first entry is the client
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
