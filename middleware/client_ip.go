package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIPKey is the gin context key holding the resolved client address.
const ClientIPKey = "clientIP"

// ResolveClientIP stores the address rate limits and logs are keyed on.
// trustedHops is the number of reverse proxies in front of the service; each
// appends its peer to X-Forwarded-For, so only the right-most trustedHops
// entries (counting the socket peer) are believed. Entries further left are
// client-supplied and ignored.
func ResolveClientIP(trustedHops int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ClientIPKey, forwardedFor(c.Request.RemoteAddr, c.GetHeader("X-Forwarded-For"), trustedHops))
		c.Next()
	}
}

// clientIP returns the resolved address, or the socket peer when
// ResolveClientIP did not run.
func clientIP(c *gin.Context) string {
	if ip := c.GetString(ClientIPKey); ip != "" {
		return ip
	}
	return peerIP(c.Request.RemoteAddr)
}

func forwardedFor(remoteAddr, xff string, trustedHops int) string {
	peer := peerIP(remoteAddr)
	if trustedHops <= 0 || xff == "" {
		return peer
	}

	// Chain in arrival order: the client first, the socket peer last.
	chain := strings.Split(xff, ",")
	chain = append(chain, peer)
	idx := len(chain) - 1 - trustedHops
	if idx < 0 {
		idx = 0
	}
	if ip := parseIP(chain[idx]); ip != "" {
		return ip
	}
	return peer
}

func peerIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
