package internal

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	apiDomain  = "api.riotgames.com"
	authHeader = "X-Riot-Token"
)

// apiRequest fully describes one outgoing call: method, URL and headers,
// built once per call and handed to the HTTP client. The API key lives only
// in the header map and must never reach the URL, logs or error text.
type apiRequest struct {
	method string
	url    string
	header http.Header
}

func routingHost(r RoutingRegion) string {
	return fmt.Sprintf("%s.%s", r, apiDomain)
}

func platformHost(p PlatformRegion) string {
	return fmt.Sprintf("%s.%s", p, apiDomain)
}

// buildRequest joins pre-escaped path segments under the given host and adds
// query parameters only when supplied. baseOverride replaces scheme and host,
// used to point the client at a test server.
func buildRequest(baseOverride, host string, segments []string, query url.Values, apiKey string) apiRequest {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}

	base := "https://" + host
	if baseOverride != "" {
		base = strings.TrimRight(baseOverride, "/")
	}

	u := base + "/" + strings.Join(escaped, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	header := http.Header{}
	header.Set(authHeader, apiKey)

	return apiRequest{method: http.MethodGet, url: u, header: header}
}
