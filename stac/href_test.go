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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHrefBuilderBuild(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		endpoint string
		expected string
	}{
		{
			name:     "root endpoint",
			base:     "https://example.com",
			endpoint: "/",
			expected: "https://example.com/api/stac/v1/",
		},
		{
			name:     "collections",
			base:     "https://example.com",
			endpoint: "/collections",
			expected: "https://example.com/api/stac/v1/collections",
		},
		{
			name:     "trailing slash on base is dropped",
			base:     "https://example.com/",
			endpoint: "/collections",
			expected: "https://example.com/api/stac/v1/collections",
		},
		{
			name:     "missing leading slash is added",
			base:     "https://example.com",
			endpoint: "search",
			expected: "https://example.com/api/stac/v1/search",
		},
		{
			name:     "proxy prefix in base",
			base:     "https://example.com/rest",
			endpoint: "/search",
			expected: "https://example.com/rest/api/stac/v1/search",
		},
		{
			name:     "non-default port in base",
			base:     "https://example.com:1234",
			endpoint: "/conformance",
			expected: "https://example.com:1234/api/stac/v1/conformance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hb := NewHrefBuilder(tt.base)
			assert.Equal(t, tt.expected, hb.Build(tt.endpoint))
		})
	}
}

func TestHrefBuilderBuildBase(t *testing.T) {
	hb := NewHrefBuilder("https://example.com/")
	assert.Equal(t, "https://example.com/openapi.json", hb.BuildBase("/openapi.json"))
	assert.Equal(t, "https://example.com/doc/", hb.BuildBase("doc/"))
}
