// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package middleware

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// BaseURLKey is the fiber.Ctx locals key under which ProxyHeaders stores
// the resolved external base URL
const BaseURLKey = "stac.baseURL"

// Header is a single name/value pair from the request header list.
// Resolution operates on an ordered header slice so lookup and replace
// semantics are independent of the transport's header map.
type Header struct {
	Name  string
	Value string
}

// RequestParts describes the request as the server itself saw it, before
// any forwarding headers are applied.
type RequestParts struct {
	Scheme string
	Host   string
	Port   int
}

// ForwardedParts is the externally visible URL reconstructed from the
// forwarding headers a reverse proxy set. Port is nil when no port is
// known; Prefix is "" when no path prefix applies.
type ForwardedParts struct {
	Scheme string
	Host   string
	Port   *int
	Prefix string
}

// HeaderValue returns the value of the first header matching name,
// case-insensitively. The second return is false when no header matches.
func HeaderValue(headers []Header, name string) (string, bool) {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value, true
		}
	}
	return "", false
}

// ReplaceHeader returns a new header list with the first header matching
// name replaced by value, preserving order and all other headers. If no
// header matches, the header is appended.
func ReplaceHeader(headers []Header, name string, value string) []Header {
	updated := make([]Header, len(headers))
	copy(updated, headers)
	for i, h := range updated {
		if strings.EqualFold(h.Name, name) {
			updated[i].Value = value
			return updated
		}
	}
	return append(updated, Header{Name: name, Value: value})
}

// ResolveForwardedParts reconstructs the externally visible scheme, host,
// port, and path prefix for a request. Precedence, highest first: a
// structured Forwarded header's proto=/host= directives, then the discrete
// X-Forwarded-* headers, then a bare Host header, then the request itself.
// A forwarded port that fails to parse as an integer falls back to the
// request's own port rather than failing the request.
func ResolveForwardedParts(req RequestParts, headers []Header) ForwardedParts {
	parts := ForwardedParts{
		Scheme: req.Scheme,
		Host:   req.Host,
		Port:   intPtr(req.Port),
	}

	if forwarded, ok := HeaderValue(headers, "Forwarded"); ok {
		for _, directive := range strings.Split(forwarded, ";") {
			directive = strings.TrimSpace(directive)
			if proto, ok := strings.CutPrefix(directive, "proto="); ok {
				parts.Scheme = proto
			} else if hostPort, ok := strings.CutPrefix(directive, "host="); ok {
				host, portStr := splitHostPort(hostPort)
				parts.Host = host
				if port, err := strconv.Atoi(portStr); err == nil {
					parts.Port = &port
				}
				// non-numeric port keeps the request's own port
			}
		}
		return parts
	}

	if host, ok := HeaderValue(headers, "X-Forwarded-Host"); ok {
		parts.Host = host
	} else if hostHeader, ok := HeaderValue(headers, "Host"); ok {
		host, portStr := splitHostPort(hostHeader)
		parts.Host = host
		if port, err := strconv.Atoi(portStr); err == nil {
			parts.Port = &port
		} else {
			// a bare Host header does not supply a port
			parts.Port = nil
		}
	}

	if proto, ok := HeaderValue(headers, "X-Forwarded-Proto"); ok {
		parts.Scheme = proto
	}

	if portStr, ok := HeaderValue(headers, "X-Forwarded-Port"); ok {
		if port, err := strconv.Atoi(portStr); err == nil {
			parts.Port = &port
		}
	}

	if prefix, ok := HeaderValue(headers, "X-Forwarded-Prefix"); ok {
		parts.Prefix = prefix
	}

	return parts
}

// BaseURL renders the resolved parts as a base URL suitable for the
// stac.HrefBuilder. Default ports for the scheme are omitted.
func (parts ForwardedParts) BaseURL() string {
	hostPort := parts.Host
	if parts.Port != nil && !defaultPort(parts.Scheme, *parts.Port) {
		hostPort = net.JoinHostPort(parts.Host, strconv.Itoa(*parts.Port))
	}
	return fmt.Sprintf("%s://%s%s", parts.Scheme, hostPort, strings.TrimRight(parts.Prefix, "/"))
}

// ProxyHeaders resolves the external base URL for each request and stores
// it in c.Locals(BaseURLKey) for handlers to build response links with
func ProxyHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := RequestParts{
			Scheme: c.Protocol(),
			Host:   c.Hostname(),
			Port:   localPort(c),
		}

		headers := make([]Header, 0, 8)
		for name, values := range c.GetReqHeaders() {
			for _, value := range values {
				headers = append(headers, Header{Name: name, Value: value})
			}
		}

		parts := ResolveForwardedParts(req, headers)
		log.Trace().
			Str("Scheme", parts.Scheme).
			Str("Host", parts.Host).
			Str("Prefix", parts.Prefix).
			Msg("resolved external base URL")
		c.Locals(BaseURLKey, parts.BaseURL())

		return c.Next()
	}
}

// splitHostPort splits on the last colon; a missing colon yields an empty
// port segment
func splitHostPort(hostPort string) (string, string) {
	idx := strings.LastIndex(hostPort, ":")
	if idx < 0 {
		return hostPort, ""
	}
	return hostPort[:idx], hostPort[idx+1:]
}

func defaultPort(scheme string, port int) bool {
	switch scheme {
	case "http":
		return port == 80
	case "https":
		return port == 443
	}
	return false
}

func localPort(c *fiber.Ctx) int {
	addr := c.Context().LocalAddr()
	if addr == nil {
		return 0
	}
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		return 0
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return port
}

func intPtr(port int) *int {
	if port == 0 {
		return nil
	}
	return &port
}
