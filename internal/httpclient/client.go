// Package httpclient provides a shared client to use instead of the
// default http.Client, so that outgoing requests carry a suitable
// User-Agent header and sensible transport defaults.
package httpclient

import (
	"net/http"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
)

// New returns the DefaultPooledClient from the cleanhttp package that will
// also send a pluginstall User-Agent string.
func New() *http.Client {
	cli := cleanhttp.DefaultPooledClient()
	cli.Transport = &userAgentRoundTripper{
		innerRt:   cli.Transport,
		userAgent: UserAgentString(),
	}
	return cli
}
