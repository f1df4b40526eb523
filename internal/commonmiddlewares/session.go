package commonmiddlewares

import (
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
)

var staticPrefixes = []string{"/_next/static", "/_next/image", "/favicon.ico"}

var imageExtensions = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico"}

// isStaticAsset reports whether the path is served without looking at the session.
func isStaticAsset(urlPath string) bool {
	for _, prefix := range staticPrefixes {
		if strings.HasPrefix(urlPath, prefix) {
			return true
		}
	}
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(urlPath)))
}

// SessionGuard only checks that the session cookie is present, the token in it is never
// verified here. The backend rejects a stale token and the console logs the user out then.
func SessionGuard(cookieName, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			urlPath := c.Request().URL.Path
			if isStaticAsset(urlPath) {
				return next(c)
			}
			hasSession := false
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				hasSession = true
			}
			if urlPath == loginPath {
				if hasSession {
					return c.Redirect(http.StatusTemporaryRedirect, "/")
				}
				return next(c)
			}
			if !hasSession {
				slog.Debug(
					"SESSION GUARD",
					"message", "no session cookie, redirecting to login",
					"path", urlPath,
					"requestID", c.Request().Header.Get(echo.HeaderXRequestID),
				)
				query := url.Values{"from": []string{urlPath}}
				return c.Redirect(http.StatusTemporaryRedirect, loginPath+"?"+query.Encode())
			}
			return next(c)
		}
	}
}
