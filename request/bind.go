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
	"regexp"
	"strconv"
	"strings"

	"github.com/SDFIdk/stac-fastapi/stac"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrInvalidParameter wraps any request value the composed model rejects;
// handlers map it to a 422 response
var ErrInvalidParameter = errors.New("invalid parameter")

var validate = validator.New()

// Values holds one request's parsed parameters keyed by field name.
// Fields absent from the request and without a default are absent from
// the map.
type Values map[string]any

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) Int(name string) int {
	i, _ := v[name].(int)
	return i
}

func (v Values) StringList(name string) []string {
	l, _ := v[name].([]string)
	return l
}

func (v Values) Floats(name string) []float64 {
	f, _ := v[name].([]float64)
	return f
}

func (v Values) JSON(name string) *json.RawMessage {
	raw, _ := v[name].(*json.RawMessage)
	return raw
}

func (v Values) Sort(name string) []stac.SortBy {
	s, _ := v[name].([]stac.SortBy)
	return s
}

func (v Values) Fields(name string) *stac.FieldSelection {
	f, _ := v[name].(*stac.FieldSelection)
	return f
}

func (v Values) Geometry(name string) *stac.GeoJSON {
	g, _ := v[name].(*stac.GeoJSON)
	return g
}

// BindQuery parses and validates a GET request's query string against
// the composed model. The model must be of query kind.
func (m *Model) BindQuery(c *fiber.Ctx) (Values, error) {
	if m.Kind != KindQuery {
		return nil, fmt.Errorf("model %q is a %s model, cannot bind a query string", m.Name, m.Kind)
	}

	vals := make(Values, len(m.fields))
	for _, field := range m.fields {
		raw := c.Query(field.WireName(), "")
		if raw == "" {
			if field.Default != nil {
				vals[field.Name] = field.Default
			}
			continue
		}

		value, err := parseQueryValue(field, raw)
		if err != nil {
			log.Error().Err(err).Str("Field", field.WireName()).Str("Value", raw).Msg("could not parse query parameter")
			return nil, err
		}

		if err := m.checkConstraints(field, value); err != nil {
			log.Error().Err(err).Str("Field", field.WireName()).Msg("query parameter out of bounds")
			return nil, err
		}

		vals[field.Name] = value
	}

	return vals, nil
}

// BindBody parses and validates a POST request's JSON body against the
// composed model. The model must be of body kind. Body members not
// declared by the model are ignored.
func (m *Model) BindBody(c *fiber.Ctx) (Values, error) {
	if m.Kind != KindBody {
		return nil, fmt.Errorf("model %q is a %s model, cannot bind a JSON body", m.Name, m.Kind)
	}

	body := make(map[string]json.RawMessage)
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			log.Error().Err(err).Msg("could not parse request body")
			return nil, fmt.Errorf("%w: body must be a JSON object", ErrInvalidParameter)
		}
	}

	vals := make(Values, len(m.fields))
	for _, field := range m.fields {
		raw, ok := body[field.WireName()]
		if !ok {
			raw, ok = body[field.Name]
		}
		if !ok || string(raw) == "null" {
			if field.Default != nil {
				vals[field.Name] = field.Default
			}
			continue
		}

		value, err := parseBodyValue(field, raw)
		if err != nil {
			log.Error().Err(err).Str("Field", field.WireName()).Msg("could not parse body member")
			return nil, err
		}

		if err := m.checkConstraints(field, value); err != nil {
			log.Error().Err(err).Str("Field", field.WireName()).Msg("body member out of bounds")
			return nil, err
		}

		vals[field.Name] = value
	}

	return vals, nil
}

func parseQueryValue(field FieldDescriptor, raw string) (any, error) {
	switch field.Type {
	case TypeString:
		return raw, nil
	case TypeInt:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s '%s' could not be converted to int", ErrInvalidParameter, field.WireName(), raw)
		}
		return value, nil
	case TypeFloat:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s '%s' could not be converted to float", ErrInvalidParameter, field.WireName(), raw)
		}
		return value, nil
	case TypeStringList:
		return strings.Split(raw, ","), nil
	case TypeBBox:
		return parseBbox(field, strings.Split(raw, ","))
	case TypeJSON:
		fragment := json.RawMessage(raw)
		return &fragment, nil
	case TypeSort:
		return parseSort(raw)
	case TypeFields:
		return parseFields(raw)
	case TypeGeometry:
		var geometry stac.GeoJSON
		if err := json.Unmarshal([]byte(raw), &geometry); err != nil {
			return nil, fmt.Errorf("%w: could not parse %s geometry", ErrInvalidParameter, field.WireName())
		}
		return &geometry, nil
	}
	return nil, fmt.Errorf("field %q has unknown type %s", field.Name, fieldTypeName(field.Type))
}

func parseBodyValue(field FieldDescriptor, raw json.RawMessage) (any, error) {
	switch field.Type {
	case TypeString:
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidParameter, field.WireName())
		}
		return value, nil
	case TypeInt:
		var value int
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %s must be an integer", ErrInvalidParameter, field.WireName())
		}
		return value, nil
	case TypeFloat:
		var value float64
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidParameter, field.WireName())
		}
		return value, nil
	case TypeStringList:
		var value []string
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: %s must be an array of strings", ErrInvalidParameter, field.WireName())
		}
		return value, nil
	case TypeBBox:
		var coords []float64
		if err := json.Unmarshal(raw, &coords); err != nil {
			return nil, fmt.Errorf("%w: %s must be an array of numbers", ErrInvalidParameter, field.WireName())
		}
		return validateBbox(field, coords)
	case TypeJSON:
		fragment := make(json.RawMessage, len(raw))
		copy(fragment, raw)
		return &fragment, nil
	case TypeSort:
		var sort []stac.SortBy
		if err := json.Unmarshal(raw, &sort); err != nil {
			return nil, fmt.Errorf("%w: %s must be an array of {field, direction}", ErrInvalidParameter, field.WireName())
		}
		return sort, nil
	case TypeFields:
		var selection stac.FieldSelection
		if err := json.Unmarshal(raw, &selection); err != nil {
			return nil, fmt.Errorf("%w: %s must be an object with include/exclude arrays", ErrInvalidParameter, field.WireName())
		}
		return &selection, nil
	case TypeGeometry:
		var geometry stac.GeoJSON
		if err := json.Unmarshal(raw, &geometry); err != nil {
			return nil, fmt.Errorf("%w: could not parse %s geometry", ErrInvalidParameter, field.WireName())
		}
		return &geometry, nil
	}
	return nil, fmt.Errorf("field %q has unknown type %s", field.Name, fieldTypeName(field.Type))
}

func (m *Model) checkConstraints(field FieldDescriptor, value any) error {
	if tag := field.constraintTag(); tag != "" {
		if err := validate.Var(value, tag); err != nil {
			return fmt.Errorf("%w: %s out of bounds (%s)", ErrInvalidParameter, field.WireName(), tag)
		}
	}

	if re, ok := m.patterns[field.Name]; ok {
		if s, isString := value.(string); isString && !re.MatchString(s) {
			return fmt.Errorf("%w: %s does not match '%s'", ErrInvalidParameter, field.WireName(), field.Pattern)
		}
	}

	return nil
}

func parseBbox(field FieldDescriptor, parts []string) ([]float64, error) {
	coords := make([]float64, 0, 6)
	for _, part := range parts {
		coord, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: offending bbox coordinate '%s'; bbox must be 4 or 6 comma separated numbers", ErrInvalidParameter, part)
		}
		coords = append(coords, coord)
	}
	return validateBbox(field, coords)
}

func validateBbox(field FieldDescriptor, coords []float64) ([]float64, error) {
	if len(coords) != 4 && len(coords) != 6 {
		return nil, fmt.Errorf("%w: %s must have 4 or 6 coordinates, got %d", ErrInvalidParameter, field.WireName(), len(coords))
	}
	if len(coords) == 4 && coords[1] > coords[3] {
		return nil, fmt.Errorf("%w: %s invalid, lat1 > lat2", ErrInvalidParameter, field.WireName())
	}
	if len(coords) == 6 && coords[1] > coords[4] {
		return nil, fmt.Errorf("%w: %s invalid, lat1 > lat2", ErrInvalidParameter, field.WireName())
	}
	return coords, nil
}

var sortRe = regexp.MustCompile(`^([\+-]?)(.*)$`)

func parseSort(sortByStr string) ([]stac.SortBy, error) {
	sort := make([]stac.SortBy, 0, 1)
	for _, token := range strings.Split(sortByStr, ",") {
		groups := sortRe.FindStringSubmatch(token)
		if len(groups) == 0 || groups[2] == "" {
			return nil, fmt.Errorf("%w: sort expression must be of the form ([+-]?)(.*)", ErrInvalidParameter)
		}
		direction := "asc"
		if groups[1] == "-" {
			direction = "desc"
		}
		sort = append(sort, stac.SortBy{
			Field:     groups[2],
			Direction: direction,
		})
	}
	return sort, nil
}

func parseFields(fieldStr string) (*stac.FieldSelection, error) {
	selection := stac.FieldSelection{
		Include: make([]string, 0, 5),
		Exclude: make([]string, 0, 5),
	}
	for _, token := range strings.Split(fieldStr, ",") {
		groups := sortRe.FindStringSubmatch(token)
		if len(groups) == 0 || groups[2] == "" {
			return nil, fmt.Errorf("%w: fields must be of the form ([+-]?)(.*)", ErrInvalidParameter)
		}
		if groups[1] == "-" {
			selection.Exclude = append(selection.Exclude, groups[2])
		} else {
			selection.Include = append(selection.Include, groups[2])
		}
	}
	return &selection, nil
}
