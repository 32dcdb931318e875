// Package registry queries a crates.io-style package index for the latest
// stable version of a named package.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/depsync/domain"
)

const (
	// DefaultBaseURL is the public crates.io API root.
	DefaultBaseURL = "https://crates.io"

	// userAgent identifies this client, as required by crates.io policy.
	// Unidentified traffic is throttled as abusive.
	userAgent = "depsync/1.0 (github.com/rios0rios0/depsync)"

	requestTimeout = 15 * time.Second
)

// crateEnvelope mirrors the relevant part of the index response:
// {"crate": {"max_stable_version": "1.2.3", ...}, ...}.
type crateEnvelope struct {
	Crate crateInfo `json:"crate"`
}

type crateInfo struct {
	MaxStableVersion string `json:"max_stable_version"`
}

// Client fetches latest stable versions from the package index.
// One request per package; no batching or caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a registry client for the given API root.
// An empty baseURL selects the public crates.io index.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// LatestStableVersion returns the latest stable version published for name.
//
// Failure modes: *domain.TransportError when the request cannot complete,
// *domain.RegistryError on a non-success status, *domain.ParseError when the
// response body does not carry the expected version field.
func (c *Client) LatestStableVersion(ctx context.Context, name string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/crates/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &domain.TransportError{Package: name, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.TransportError{Package: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &domain.RegistryError{Package: name, StatusCode: resp.StatusCode}
	}

	var envelope crateEnvelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr != nil {
		return "", &domain.ParseError{Subject: name, Err: decodeErr}
	}

	latest := envelope.Crate.MaxStableVersion
	if latest == "" {
		return "", &domain.ParseError{
			Subject: name,
			Err:     fmt.Errorf("response has no max_stable_version field"),
		}
	}

	if !semver.IsValid(normalizeVersion(latest)) {
		logger.Warnf("[registry] %s reports non-semver version %q", name, latest)
	}

	logger.Debugf("[registry] %s latest stable: %s", name, latest)
	return latest, nil
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
