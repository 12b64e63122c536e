package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerConfig guards the /swagger endpoint
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // run the bearer token check before serving docs
	AllowedIPs  []string // single IPs or CIDRs; empty allows every client
}

// SwaggerProtection answers 404 when docs are disabled, 403 for clients outside
// AllowedIPs, and runs auth when RequireAuth is set. The IP check runs first.
func SwaggerProtection(cfg SwaggerConfig, auth gin.HandlerFunc) gin.HandlerFunc {
	allow := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeNotFound, "API documentation is not available", c.GetString(RequestIDKey)))
			return
		}
		if !allow.permits(net.ParseIP(c.ClientIP())) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Access to API documentation is restricted", c.GetString(RequestIDKey)))
			return
		}
		if cfg.RequireAuth && auth != nil {
			auth(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}

type allowList struct {
	ips  []net.IP
	nets []*net.IPNet
}

// parseAllowList skips entries that are neither an IP nor a CIDR
func parseAllowList(entries []string) *allowList {
	if len(entries) == 0 {
		return nil
	}
	l := &allowList{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if strings.Contains(e, "/") {
			if _, n, err := net.ParseCIDR(e); err == nil {
				l.nets = append(l.nets, n)
			}
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			l.ips = append(l.ips, ip)
		}
	}
	return l
}

// permits reports whether ip may reach the docs. A nil list allows everyone.
func (l *allowList) permits(ip net.IP) bool {
	if l == nil {
		return true
	}
	if ip == nil {
		return false
	}
	for _, allowed := range l.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, n := range l.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
