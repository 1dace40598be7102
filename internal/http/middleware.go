package http

import (
	"fmt"
	"log"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware echoes a caller supplied X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// RequestLogger prefixes log lines with the client address. When trusted
// proxies are configured and a request reached us directly, the address is
// marked with "*" because it was not vouched for by a proxy.
type RequestLogger struct {
	proxies []*net.IPNet
}

// NewRequestLogger parses TRUSTED_PROXIES entries (IPs or CIDRs).
func NewRequestLogger(trustedProxies []string) (*RequestLogger, error) {
	l := &RequestLogger{}
	for _, entry := range trustedProxies {
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil && ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		l.proxies = append(l.proxies, network)
	}
	return l, nil
}

// ClientLabel renders the client address for log lines.
func (l *RequestLogger) ClientLabel(c *gin.Context) string {
	label := c.ClientIP()
	if len(l.proxies) > 0 && !l.viaTrustedProxy(c) {
		label += "*"
	}
	return label
}

func (l *RequestLogger) viaTrustedProxy(c *gin.Context) bool {
	remote := net.ParseIP(c.RemoteIP())
	if remote == nil {
		return false
	}
	for _, network := range l.proxies {
		if network.Contains(remote) {
			return true
		}
	}
	return false
}

// Printf logs a line prefixed with the request's client label.
func (l *RequestLogger) Printf(c *gin.Context, format string, args ...any) {
	log.Printf("[%s] %s", l.ClientLabel(c), fmt.Sprintf(format, args...))
}
