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
	"crypto/tls"
	"net"
	"net/http"

	"github.com/NVIDIA/tsunami-testbed/pkg/defaults"
	"github.com/NVIDIA/tsunami-testbed/pkg/server"
)

const (
	maxIdleConns        = 10
	maxIdleConnsPerHost = 2
	maxConnsPerHost     = 0
)

func newDefaultTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		MaxConnsPerHost:     maxConnsPerHost,

		DialContext: (&net.Dialer{
			Timeout:   defaults.HTTPConnectTimeout,
			KeepAlive: defaults.HTTPKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   defaults.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: defaults.HTTPExpectContinueTimeout,

		IdleConnTimeout:   defaults.HTTPIdleConnTimeout,
		ForceAttemptHTTP2: true,

		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// credentials attaches the configured API key and bearer token to every
// outgoing request.
type credentials struct {
	apiKey    string
	authToken string
	next      http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// headers are set.
func (c *credentials) RoundTrip(req *http.Request) (*http.Response, error) {
	if c.apiKey == "" && c.authToken == "" {
		return c.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	if c.apiKey != "" {
		req.Header.Set(server.HeaderAPIKey, c.apiKey)
	}
	if c.authToken != "" {
		req.Header.Set(server.HeaderAuthorization, "Bearer "+c.authToken)
	}
	return c.next.RoundTrip(req)
}
