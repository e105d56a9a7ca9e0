package httpclient

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/pluginstall/version"
)

const userAgentFormat = "Pluginstall/%s"
const uaEnvVar = "PLUGINSTALL_APPEND_USER_AGENT"

// UserAgentString returns the User-Agent header value to send with all
// outgoing requests, optionally extended via the append env var.
func UserAgentString() string {
	ua := fmt.Sprintf(userAgentFormat, version.Version)

	if add := os.Getenv(uaEnvVar); add != "" {
		add = strings.TrimSpace(add)
		if len(add) > 0 {
			ua += " " + add
			log.Printf("[DEBUG] Extra User-Agent Information: %q", add)
		}
	}

	return ua
}

type userAgentRoundTripper struct {
	innerRt   http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	log.Printf("[TRACE] HTTP client %s request to %s", req.Method, req.URL.String())
	return rt.innerRt.RoundTrip(req)
}
