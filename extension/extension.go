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

// Package extension declares the optional STAC API specification
// fragments this server can enable. Each extension contributes
// conformance classes, request-model parameter sets per HTTP method,
// and optionally a JSON-schema reference advertised on the landing page.
package extension

import (
	"fmt"

	"github.com/SDFIdk/stac-fastapi/request"
)

// Extension names are explicit tags compared by value, never derived
// from implementation type names.
const (
	Filter          = "FilterExtension"
	Crs             = "CrsExtension"
	TokenPagination = "TokenPaginationExtension"
	Transaction     = "TransactionExtension"
)

type Extension interface {
	// Name returns the extension's registry tag
	Name() string

	// ConformanceClasses lists the class URIs the extension adds
	ConformanceClasses() []string

	// RequestModel returns the parameter set contributed for an HTTP
	// method ("GET" or "POST"), or nil when the extension adds no
	// fields for that method
	RequestModel(method string) *request.ParameterSet

	// SchemaHref returns the extension's JSON-schema reference, or ""
	SchemaHref() string
}

// FromNames builds the extension list for a configured set of names,
// preserving order. Order matters: it decides request-model field merge
// precedence.
func FromNames(names []string) ([]Extension, error) {
	extensions := make([]Extension, 0, len(names))
	for _, name := range names {
		switch name {
		case Filter:
			extensions = append(extensions, FilterExtension{})
		case Crs:
			extensions = append(extensions, CrsExtension{})
		case TokenPagination:
			extensions = append(extensions, TokenPaginationExtension{})
		case Transaction:
			extensions = append(extensions, TransactionExtension{})
		default:
			return nil, fmt.Errorf("unknown extension %q", name)
		}
	}
	return extensions, nil
}
