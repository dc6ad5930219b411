package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds store calls made while serving a request.
	RequestTimeout = 5 * time.Second
)
