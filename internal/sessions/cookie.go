package sessions

import (
	"net/http"
	"net/url"
)

// CookieSetter receives the cookie that mirrors the access token. echo.Context satisfies it.
type CookieSetter interface {
	SetCookie(cookie *http.Cookie)
}

// JarMirror stores the mirrored cookie in a cookie jar for the given console URL.
type JarMirror struct {
	Jar http.CookieJar
	URL *url.URL
}

func (j JarMirror) SetCookie(cookie *http.Cookie) {
	j.Jar.SetCookies(j.URL, []*http.Cookie{cookie})
}

func authCookie(name string, accessToken string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(accessToken),
		Path:     "/",
		MaxAge:   int(SessionCookieTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredAuthCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	}
}
