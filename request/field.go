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

// Package request composes the concrete request models bound to routes
// at startup. A base parameter set is merged with the parameter sets the
// enabled extensions contribute, separately for query-string (GET) and
// JSON-body (POST) request shapes, and the composed model parses and
// validates incoming requests.
package request

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind distinguishes query-parameter models from body-field models.
// All parameter sets merged into one model must share a kind.
type Kind int

const (
	KindQuery Kind = iota
	KindBody
)

func (k Kind) String() string {
	if k == KindBody {
		return "body"
	}
	return "query"
}

// FieldType selects the parser used for a field's raw value
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeStringList // comma separated in a query string, JSON array in a body
	TypeBBox       // 4 or 6 comma separated floats, JSON array in a body
	TypeJSON       // raw JSON fragment passed through unparsed
	TypeSort       // sortby syntax: [+-]field,...
	TypeFields     // fields syntax: [-]field,...
	TypeGeometry   // GeoJSON geometry object
)

// FieldDescriptor declares one typed request field: its wire alias, its
// default, and its validation constraints. Descriptors are value types;
// composition copies them unchanged into the merged model.
type FieldDescriptor struct {
	Name        string
	Alias       string // wire name when it differs from Name
	Type        FieldType
	Default     any
	Title       string
	Description string

	// numeric bounds
	Gt *float64
	Ge *float64
	Lt *float64
	Le *float64

	// string bounds
	MinLength *int
	MaxLength *int
	Pattern   string
}

// WireName is the name the field carries on the wire: the alias when one
// is declared, the field name otherwise
func (f FieldDescriptor) WireName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// constraintTag renders the numeric and length bounds as a validator/v10
// tag. Pattern constraints are enforced separately with a compiled regexp.
func (f FieldDescriptor) constraintTag() string {
	parts := make([]string, 0, 4)
	if f.Gt != nil {
		parts = append(parts, "gt="+formatBound(*f.Gt))
	}
	if f.Ge != nil {
		parts = append(parts, "gte="+formatBound(*f.Ge))
	}
	if f.Lt != nil {
		parts = append(parts, "lt="+formatBound(*f.Lt))
	}
	if f.Le != nil {
		parts = append(parts, "lte="+formatBound(*f.Le))
	}
	if f.MinLength != nil {
		parts = append(parts, "min="+strconv.Itoa(*f.MinLength))
	}
	if f.MaxLength != nil {
		parts = append(parts, "max="+strconv.Itoa(*f.MaxLength))
	}
	return strings.Join(parts, ",")
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParameterSet is a named collection of field descriptors of one kind
type ParameterSet struct {
	Name   string
	Kind   Kind
	Fields []FieldDescriptor
}

// ModelProvider is implemented by extensions that contribute a parameter
// set per HTTP method. A nil return means the extension adds nothing for
// that method.
type ModelProvider interface {
	RequestModel(method string) *ParameterSet
}

// helpers for declaring bounds inline

func Bound(v float64) *float64 { return &v }

func Length(v int) *int { return &v }

func fieldTypeName(t FieldType) string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeStringList:
		return "string list"
	case TypeBBox:
		return "bbox"
	case TypeJSON:
		return "json"
	case TypeSort:
		return "sortby"
	case TypeFields:
		return "fields"
	case TypeGeometry:
		return "geometry"
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}
