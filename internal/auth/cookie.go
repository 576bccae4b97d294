package auth

import (
	"net/http"
	"strings"
	"time"
)

// TokenCookieName is the cookie carrying the session token.
const TokenCookieName = "token"

// CookiePolicy controls the attributes of the session cookie.
type CookiePolicy struct {
	// AlwaysSecure forces the Secure flag. Otherwise it is set only for
	// requests that arrived over TLS.
	AlwaysSecure bool
	// MaxAge mirrors the token lifetime. Zero produces a session cookie.
	MaxAge time.Duration
}

func (p CookiePolicy) secure(r *http.Request) bool {
	return p.AlwaysSecure || isSecureRequest(r)
}

// SetTokenCookie writes the session token as an HttpOnly, SameSite=Lax cookie.
func SetTokenCookie(w http.ResponseWriter, r *http.Request, token string, policy CookiePolicy) {
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   policy.secure(r),
		SameSite: http.SameSiteLaxMode,
	}
	if policy.MaxAge > 0 {
		cookie.MaxAge = int(policy.MaxAge.Seconds())
		cookie.Expires = time.Now().Add(policy.MaxAge).UTC()
	}
	http.SetCookie(w, cookie)
}

// ClearTokenCookie expires the session cookie on the client. The token itself
// stays valid until its natural expiry.
func ClearTokenCookie(w http.ResponseWriter, r *http.Request, policy CookiePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   policy.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		for _, p := range strings.Split(proto, ",") {
			if strings.EqualFold(strings.TrimSpace(p), "https") {
				return true
			}
		}
	}
	return false
}
