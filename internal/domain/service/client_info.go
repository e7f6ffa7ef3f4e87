package service

import "net/http"

// ClientInfo carries the client descriptors extracted from a request. All
// fields are opaque strings as far as the authentication core is concerned.
type ClientInfo struct {
	IP        string
	UserAgent string
	Browser   string
	OS        string
	Device    string
}

// ClientInfoExtractor turns a raw HTTP request into the client descriptors
// recorded alongside login attempts.
type ClientInfoExtractor interface {
	Extract(req *http.Request) ClientInfo
}
