package security

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsSecureRequest(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		if IsSecureRequest(r) {
			t.Error("plain HTTP request should not be secure")
		}
	})

	t.Run("direct tls", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		r.TLS = &tls.ConnectionState{}
		if !IsSecureRequest(r) {
			t.Error("TLS request should be secure")
		}
	})

	t.Run("forwarded proto", func(t *testing.T) {
		r := httptest.NewRequest("GET", "http://example.com/", nil)
		r.Header.Set("X-Forwarded-Proto", "https")
		if !IsSecureRequest(r) {
			t.Error("proxied HTTPS request should be secure")
		}
	})
}

func TestSessionCookieFlags(t *testing.T) {
	r := httptest.NewRequest("GET", "http://example.com/", nil)
	cookie := CreateSessionCookie(r, "session_id", "abc", time.Now().Add(time.Hour))

	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("session cookie path = %q, want /", cookie.Path)
	}
	if cookie.Secure {
		t.Error("session cookie over plain HTTP should not be Secure")
	}

	deleted := CreateDeleteCookie(r, "session_id")
	if deleted.MaxAge != -1 || deleted.Value != "" {
		t.Errorf("delete cookie = MaxAge %d Value %q, want -1 and empty", deleted.MaxAge, deleted.Value)
	}
}
