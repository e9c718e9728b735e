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

package stac

import (
	"fmt"
	"strings"
)

// APIRoot is the path under which all STAC routes are mounted
const APIRoot = "/api/stac/v1"

// HrefBuilder builds absolute links from the externally visible base URL
// of the service. The base URL is resolved once per request, either from
// the raw request or from the forwarding headers a reverse proxy set
// (see middleware.ForwardedParts).
type HrefBuilder struct {
	base string
}

// NewHrefBuilder returns a builder rooted at baseURL. baseURL must carry
// a scheme and host; any trailing slash is dropped so Build is idempotent
// for the same inputs.
func NewHrefBuilder(baseURL string) *HrefBuilder {
	return &HrefBuilder{base: strings.TrimRight(baseURL, "/")}
}

// Build returns an absolute URL for an endpoint under the API root,
// e.g. Build("/collections") -> https://host/api/stac/v1/collections
func (hb *HrefBuilder) Build(endpoint string) string {
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return fmt.Sprintf("%s%s%s", hb.base, APIRoot, endpoint)
}

// BuildBase returns an absolute URL outside the API root, used for
// service-desc and service-doc links
func (hb *HrefBuilder) BuildBase(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s%s", hb.base, path)
}
