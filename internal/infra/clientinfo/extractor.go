// Package clientinfo derives client descriptors (IP, browser, OS, device
// class) from incoming HTTP requests for the login audit trail.
package clientinfo

import (
	"net"
	"net/http"
	"strings"

	"taskflow/internal/domain/service"

	"github.com/mileusna/useragent"
)

// extractor implements the domain's ClientInfoExtractor interface.
type extractor struct{}

// NewExtractor is the constructor for extractor.
func NewExtractor() service.ClientInfoExtractor {
	return &extractor{}
}

// Extract parses the request into client descriptors. All results are best
// effort; a request with no usable headers yields empty fields, never an error.
func (e *extractor) Extract(req *http.Request) service.ClientInfo {
	info := service.ClientInfo{
		IP:        clientIP(req),
		UserAgent: req.UserAgent(),
	}

	if info.UserAgent == "" {
		return info
	}

	ua := useragent.Parse(info.UserAgent)
	info.Browser = ua.Name
	info.OS = ua.OS
	info.Device = deviceClass(ua)

	return info
}

// clientIP prefers the forwarding headers set by the proxy in front of the
// service, falling back to the peer address.
func clientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		// The first entry is the originating client.
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if realIP := req.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}

func deviceClass(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Mobile:
		return "mobile"
	case ua.Tablet:
		return "tablet"
	case ua.Desktop:
		return "desktop"
	default:
		return ""
	}
}
