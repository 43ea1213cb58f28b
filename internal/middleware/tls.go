package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	hstsHeader = "Strict-Transport-Security"
	hstsValue  = "max-age=31536000; includeSubDomains"
)

// TLS redirects plain HTTP to HTTPS and the apex domain to www, both with 307,
// and sets HSTS on TLS responses. Without X-Forwarded-Proto (no TLS-terminating
// proxy, e.g. local dev) the scheme is left alone.
func TLS(apexDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		forwardedProto := c.GetHeader("X-Forwarded-Proto")
		isTLS := forwardedProto == "https"

		target := *c.Request.URL
		target.Scheme = "https"
		if !isTLS && forwardedProto == "" {
			target.Scheme = "http"
		}

		host := c.GetHeader("X-Forwarded-Host")
		if host == "" {
			host = c.Request.Host
		}
		target.Host = host

		needsRedirect := forwardedProto != "" && !isTLS
		if apexDomain != "" && host == apexDomain {
			target.Host = "www." + apexDomain
			needsRedirect = true
		}

		if isTLS {
			c.Header(hstsHeader, hstsValue)
		}

		if needsRedirect {
			c.Redirect(http.StatusTemporaryRedirect, target.String())
			c.Abort()
			return
		}

		c.Next()
	}
}
