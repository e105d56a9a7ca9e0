// Package registry is a client for the HTTP plugin registry protocol.
//
// A registry exposes two endpoints per plugin: a versions listing and a
// per-version download location. The client here does not interpret the
// results beyond decoding; version selection happens in getplugins.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/hashicorp/pluginstall/internal/httpclient"
	"github.com/hashicorp/pluginstall/internal/logging"
	"github.com/hashicorp/pluginstall/internal/registry/response"
)

const (
	pluginsServicePath = "/v1/plugins/"

	// registryDiscoveryRetry is the number of retries for transient
	// request failures against a registry.
	registryDiscoveryRetry = 2

	// defaultRequestTimeout is the default timeout for a single registry
	// request, including retries.
	defaultRequestTimeout = 10 * time.Second
)

// Client provides methods to query plugin registries.
type Client struct {
	// client is the underlying retryable HTTP client used to make all
	// registry requests.
	client *retryablehttp.Client
}

// NewClient returns a new initialized registry client. If the given
// http.Client is nil a default one is constructed, which includes the
// shared User-Agent transport.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = httpclient.New()
		client.Timeout = defaultRequestTimeout
	}

	retryableClient := retryablehttp.NewClient()
	retryableClient.HTTPClient = client
	retryableClient.RetryMax = registryDiscoveryRetry
	retryableClient.RequestLogHook = requestLogHook
	retryableClient.ErrorHandler = maxRetryErrorHandler
	retryableClient.Logger = log.New(logging.LogOutput(), "", 0)

	return &Client{
		client: retryableClient,
	}
}

// PluginVersions queries the registry at the given base URL for all
// released versions of the named plugin.
func (c *Client) PluginVersions(ctx context.Context, baseURL string, name string) (*response.PluginVersions, error) {
	endpoint, err := c.serviceURL(baseURL, name, "versions")
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] fetching plugin versions from %q", endpoint)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &errServiceUnreachable{host: baseURL, err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// OK
	case http.StatusNotFound:
		return nil, &errPluginNotFound{name: name, host: baseURL}
	default:
		return nil, fmt.Errorf("error looking up plugin versions: %s", resp.Status)
	}

	var versions response.PluginVersions
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&versions); err != nil {
		return nil, err
	}

	return &versions, nil
}

// PluginLocation queries the registry for the download location of the
// given version of the named plugin.
func (c *Client) PluginLocation(ctx context.Context, baseURL string, name string, version string) (*response.PluginLocation, error) {
	endpoint, err := c.serviceURL(baseURL, name, version, "download")
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] fetching plugin location from %q", endpoint)

	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, &errServiceUnreachable{host: baseURL, err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// OK
	case http.StatusNotFound:
		return nil, &errPluginNotFound{name: name, host: baseURL}
	default:
		return nil, fmt.Errorf("error looking up plugin location: %s", resp.Status)
	}

	var loc response.PluginLocation
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&loc); err != nil {
		return nil, err
	}
	if loc.DownloadURL == "" {
		return nil, fmt.Errorf("registry at %s returned no download URL for %s %s", baseURL, name, version)
	}

	// Resolve a relative download URL against the endpoint that returned it.
	endpointURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	downloadURL, err := endpointURL.Parse(loc.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("registry at %s returned invalid download URL: %s", baseURL, err)
	}
	loc.DownloadURL = downloadURL.String()

	return &loc, nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Accept", "application/json")
	return c.client.Do(req)
}

func (c *Client) serviceURL(baseURL string, parts ...string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid registry URL %q: %s", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid registry URL %q: must use http or https scheme", baseURL)
	}
	u.Path = path.Join(u.Path, pluginsServicePath, path.Join(parts...))
	return u.String(), nil
}

func requestLogHook(logger retryablehttp.Logger, req *http.Request, i int) {
	if i > 0 {
		logger.Printf("[WARN] Previous request to the remote registry failed, attempting retry.")
	}
}

func maxRetryErrorHandler(resp *http.Response, err error, numTries int) (*http.Response, error) {
	// Close the body per library instructions
	if resp != nil {
		resp.Body.Close()
	}

	// Additional error detail: if we have a response, use the status code;
	// if we have an error, use that.
	var errMsg string
	if resp != nil {
		errMsg = fmt.Sprintf(": %s returned from %s", resp.Status, resp.Request.URL)
	} else if err != nil {
		errMsg = fmt.Sprintf(": %s", err)
	}

	// This function is always called with numTries=RetryMax+1. If we made
	// any retries at all, include that in the error message.
	if numTries > 1 {
		return resp, fmt.Errorf("the request failed after %d attempts, please try again later%s",
			numTries, errMsg)
	}
	return resp, fmt.Errorf("the request failed, please try again later%s", errMsg)
}
