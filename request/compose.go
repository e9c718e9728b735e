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

package request

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/rs/zerolog/log"
)

var (
	// ErrMixedKinds signals a query-parameter set merged with a
	// body-field set; a misconfigured extension, fatal at startup
	ErrMixedKinds = errors.New("mixed request model kinds")

	// ErrAliasCollision signals two distinct fields claiming the same
	// wire alias, fatal at startup
	ErrAliasCollision = errors.New("alias collision between distinct fields")
)

// Model is a composed request model bound to a route. It is built once at
// startup and read-only afterwards; binding a request never mutates it.
type Model struct {
	Name string
	Kind Kind

	fields   []FieldDescriptor
	index    map[string]int
	patterns map[string]*regexp.Regexp
}

// Fields returns the merged field descriptors in composition order
func (m *Model) Fields() []FieldDescriptor {
	return m.fields
}

// Field looks a descriptor up by field name
func (m *Model) Field(name string) (FieldDescriptor, bool) {
	idx, ok := m.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return m.fields[idx], true
}

// Compose merges a base parameter set, the parameter sets contributed by
// each provider for the given HTTP method ("GET" or "POST"), and any
// extra mixin sets, into one model. Merge order is list order, base
// first. All sets must share the base's kind.
//
// Field-name collisions resolve last-registered-wins: a later set's
// descriptor replaces an earlier one of the same name, with a warning
// naming both sets, unless the descriptors are identical. An alias
// claimed by two different field names is an error.
func Compose(modelName string, base ParameterSet, providers []ModelProvider, mixins []ParameterSet, method string) (*Model, error) {
	sets := make([]ParameterSet, 0, 2+len(providers)+len(mixins))
	sets = append(sets, base)
	for _, provider := range providers {
		if contributed := provider.RequestModel(method); contributed != nil {
			sets = append(sets, *contributed)
		}
	}
	sets = append(sets, mixins...)

	for _, set := range sets {
		if set.Kind != base.Kind {
			return nil, fmt.Errorf("%w: %s model %q composed with %s set %q",
				ErrMixedKinds, base.Kind, modelName, set.Kind, set.Name)
		}
	}

	model := &Model{
		Name:     modelName,
		Kind:     base.Kind,
		fields:   make([]FieldDescriptor, 0, 16),
		index:    make(map[string]int),
		patterns: make(map[string]*regexp.Regexp),
	}

	owner := make(map[string]string)   // field name -> contributing set
	aliases := make(map[string]string) // alias -> field name

	for _, set := range sets {
		for _, field := range set.Fields {
			if claimed, ok := aliases[field.WireName()]; ok && claimed != field.Name {
				return nil, fmt.Errorf("%w: alias %q claimed by %q and %q in model %q",
					ErrAliasCollision, field.WireName(), claimed, field.Name, modelName)
			}
			aliases[field.WireName()] = field.Name

			if idx, ok := model.index[field.Name]; ok {
				if !reflect.DeepEqual(model.fields[idx], field) {
					log.Warn().
						Str("Model", modelName).
						Str("Field", field.Name).
						Str("Previous", owner[field.Name]).
						Str("Override", set.Name).
						Msg("field redeclared; last-registered set wins")
					model.fields[idx] = field
					owner[field.Name] = set.Name
				}
				continue
			}

			model.index[field.Name] = len(model.fields)
			model.fields = append(model.fields, field)
			owner[field.Name] = set.Name
		}
	}

	for _, field := range model.fields {
		if field.Pattern == "" {
			continue
		}
		re, err := regexp.Compile(field.Pattern)
		if err != nil {
			return nil, fmt.Errorf("field %q in model %q: invalid pattern: %w", field.Name, modelName, err)
		}
		model.patterns[field.Name] = re
	}

	return model, nil
}
