// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	apperrors "github.com/NVIDIA/tsunami-testbed/pkg/errors"
	"github.com/NVIDIA/tsunami-testbed/pkg/server"
	"github.com/NVIDIA/tsunami-testbed/pkg/testbed"
)

const (
	// DefaultAddress is the server address used when none is configured.
	DefaultAddress = "http://localhost:8000"

	userAgent = "testbed-client"
	accept    = "application/vnd.nvidia.testbed." + server.DefaultAPIVersion + "+json"

	// maxResponseBytes caps the body read from the server.
	maxResponseBytes = 4 << 20
)

// Client calls the testbed RPC surface over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
	authToken  string
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key in the x-api-key header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithAuthToken sends token as an Authorization bearer.
func WithAuthToken(token string) Option {
	return func(c *Client) {
		c.authToken = token
	}
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying client. Its transport is wrapped
// with the credential round tripper.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New returns a Client for the server at address.
func New(address string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(address) == "" {
		address = DefaultAddress
	}
	u, err := url.Parse(address)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("invalid server address %q", address), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument,
			fmt.Sprintf("invalid server address %q: scheme must be http or https", address))
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: newDefaultTransport()},
		timeout:    defaults.CLIClientTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	next := c.httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = &credentials{apiKey: c.apiKey, authToken: c.authToken, next: next}
	c.httpClient = &hc

	return c, nil
}

// CreateDeployment deploys an application and returns once its Service is
// observable.
func (c *Client) CreateDeployment(ctx context.Context, req testbed.ApplicationRequest) (*testbed.DeploymentResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "failed to encode request", err)
	}
	var result testbed.DeploymentResult
	if err := c.do(ctx, http.MethodPost, testbed.RouteDeployments, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListApplications returns the names of deployed applications.
func (c *Client) ListApplications(ctx context.Context) (*testbed.ApplicationList, error) {
	var list testbed.ApplicationList
	if err := c.do(ctx, http.MethodGet, testbed.RouteApplications, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetApplication returns the service endpoint of the named application.
func (c *Client) GetApplication(ctx context.Context, name string) (*testbed.ApplicationInfo, error) {
	if name == "" {
		return nil, apperrors.New(apperrors.ErrCodeInvalidArgument, "application name is required")
	}
	var info testbed.ApplicationInfo
	if err := c.do(ctx, http.MethodGet, testbed.RouteApplications+"/"+url.PathEscape(name), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.baseURL.JoinPath(path)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to build request", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.Wrap(apperrors.ErrCodeTimeout, method+" "+path+" timed out", err)
		}
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, method+" "+path+" failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUnavailable, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "failed to decode response", err)
	}
	return nil
}

// decodeError turns an error reply into a StructuredError carrying the
// server's code, message, details and request id.
func decodeError(status int, data []byte) error {
	var er server.ErrorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Code == "" {
		return apperrors.NewWithContext(codeFromStatus(status),
			fmt.Sprintf("server returned %d", status), map[string]any{
				"status": status,
				"body":   strings.TrimSpace(string(data)),
			})
	}

	ctx := make(map[string]any, len(er.Details)+3)
	for k, v := range er.Details {
		ctx[k] = v
	}
	ctx["status"] = status
	ctx["retryable"] = er.Retryable
	if er.RequestID != "" {
		ctx["requestId"] = er.RequestID
	}
	return apperrors.NewWithContext(apperrors.ErrorCode(er.Code), er.Message, ctx)
}

func codeFromStatus(status int) apperrors.ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return apperrors.ErrCodeInvalidArgument
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.ErrCodeUnauthorized
	case http.StatusNotFound:
		return apperrors.ErrCodeNotFound
	case http.StatusMethodNotAllowed:
		return apperrors.ErrCodeMethodNotAllowed
	case http.StatusTooManyRequests:
		return apperrors.ErrCodeRateLimitExceeded
	case http.StatusServiceUnavailable:
		return apperrors.ErrCodeUnavailable
	case http.StatusGatewayTimeout:
		return apperrors.ErrCodeTimeout
	default:
		return apperrors.ErrCodeInternal
	}
}
