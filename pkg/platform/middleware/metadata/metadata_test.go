package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firefoxLinux = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "first forwarded hop", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, want: "203.0.113.7"},
		{name: "real ip header", headers: map[string]string{"X-Real-IP": " 198.51.100.2 "}, want: "198.51.100.2"},
		{name: "remote addr ipv4", remoteAddr: "192.0.2.10:51234", want: "192.0.2.10"},
		{name: "remote addr ipv6", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
		{name: "nothing known", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestDescribe(t *testing.T) {
	device, bot := Describe(firefoxLinux)
	assert.Contains(t, device, "Firefox 120 on Linux")
	assert.False(t, bot)

	_, bot = Describe("Googlebot/2.1 (+http://www.google.com/bot.html)")
	assert.True(t, bot)

	device, bot = Describe("")
	assert.Empty(t, device)
	assert.False(t, bot)
}

func TestClientMetadata(t *testing.T) {
	var got Client
	handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Set("User-Agent", firefoxLinux)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, "192.0.2.10", got.IP)
	assert.Equal(t, firefoxLinux, got.UserAgent)
	assert.Contains(t, got.Device, "Firefox")
	assert.Equal(t, Client{}, FromContext(context.Background()))
}
