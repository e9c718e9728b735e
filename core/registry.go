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

package core

import (
	"fmt"

	"github.com/SDFIdk/stac-fastapi/extension"
	"github.com/SDFIdk/stac-fastapi/request"
)

// Registry holds the ordered list of enabled extensions and the base
// conformance classes. It is built once at startup and read-only
// afterwards; extension order decides request-model merge precedence.
type Registry struct {
	baseClasses []string
	extensions  []extension.Extension
}

func NewRegistry(baseClasses []string, extensions ...extension.Extension) *Registry {
	return &Registry{
		baseClasses: baseClasses,
		extensions:  extensions,
	}
}

// Extensions returns the enabled extensions in registration order
func (r *Registry) Extensions() []extension.Extension {
	return r.extensions
}

// ConformanceClasses returns the base classes unioned with every enabled
// extension's classes, deduplicated, in first-seen order
func (r *Registry) ConformanceClasses() []string {
	classes := make([]string, 0, len(r.baseClasses)+4*len(r.extensions))
	seen := make(map[string]bool)

	add := func(class string) {
		if !seen[class] {
			seen[class] = true
			classes = append(classes, class)
		}
	}

	for _, class := range r.baseClasses {
		add(class)
	}
	for _, ext := range r.extensions {
		for _, class := range ext.ConformanceClasses() {
			add(class)
		}
	}

	return classes
}

// ExtensionIsEnabled reports whether an extension with the given name is
// registered
func (r *Registry) ExtensionIsEnabled(name string) bool {
	for _, ext := range r.extensions {
		if ext.Name() == name {
			return true
		}
	}
	return false
}

// GetExtension returns the registered extension with the given name;
// ErrNotFound when none matches
func (r *Registry) GetExtension(name string) (extension.Extension, error) {
	for _, ext := range r.extensions {
		if ext.Name() == name {
			return ext, nil
		}
	}
	return nil, fmt.Errorf("extension %s: %w", name, ErrNotFound)
}

// SchemaHrefs lists the JSON-schema references of extensions that
// declare one, in registration order
func (r *Registry) SchemaHrefs() []string {
	hrefs := make([]string, 0, len(r.extensions))
	for _, ext := range r.extensions {
		if href := ext.SchemaHref(); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

// Providers adapts the extension list for request.Compose
func (r *Registry) Providers() []request.ModelProvider {
	providers := make([]request.ModelProvider, len(r.extensions))
	for i, ext := range r.extensions {
		providers[i] = ext
	}
	return providers
}
