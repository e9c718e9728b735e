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
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/SDFIdk/stac-fastapi/stac"
)

const (
	DefaultLimit = 10
	MaxLimit     = 10_000
)

const rfc3339 = `(\d{4})-(0[1-9]|1[0-2])-([0-2]\d|3[01])[T\s]([01]\d|2[0-3]):([0-5]\d):([0-5]\d)(\.\d+)?(Z|[\+-]([01]\d|2[0-3]):([0-5]\d))?`

// DatetimePattern accepts a single RFC 3339 datetime or an interval whose
// sides are datetimes or open ('..')
const DatetimePattern = `^(` + rfc3339 + `|\.\.)(/(` + rfc3339 + `|\.\.))?$`

func searchFields() []FieldDescriptor {
	return []FieldDescriptor{
		{Name: "collections", Type: TypeStringList, Description: "Only return items in one of these collections"},
		{Name: "ids", Type: TypeStringList, Description: "Only return items with one of these ids"},
		{Name: "bbox", Type: TypeBBox, Description: "Only return items intersecting this bounding box"},
		{Name: "intersects", Type: TypeGeometry, Description: "Only return items intersecting this GeoJSON geometry"},
		{Name: "datetime", Type: TypeString, Pattern: DatetimePattern, Description: "Only return items matching this datetime or interval"},
		{Name: "limit", Type: TypeInt, Default: DefaultLimit, Ge: Bound(1), Le: Bound(MaxLimit), Description: "Maximum number of items to return"},
		{Name: "query", Type: TypeJSON, Description: "Query extension property filters"},
		{Name: "sortby", Type: TypeSort, Description: "Sort the results by one or more properties"},
		{Name: "fields", Type: TypeFields, Description: "Include or exclude item properties in the response"},
	}
}

// BaseSearchGet is the query-parameter set every search GET route starts
// from; extensions contribute additional sets on top of it
func BaseSearchGet() ParameterSet {
	return ParameterSet{Name: "BaseSearchGetRequest", Kind: KindQuery, Fields: searchFields()}
}

// BaseSearchPost mirrors BaseSearchGet for JSON-body requests
func BaseSearchPost() ParameterSet {
	return ParameterSet{Name: "BaseSearchPostRequest", Kind: KindBody, Fields: searchFields()}
}

// BaseItemCollection is the query-parameter set for listing items of one
// collection (GET /collections/:collectionId/items)
func BaseItemCollection() ParameterSet {
	return ParameterSet{Name: "ItemCollectionRequest", Kind: KindQuery, Fields: []FieldDescriptor{
		{Name: "bbox", Type: TypeBBox, Description: "Only return items intersecting this bounding box"},
		{Name: "datetime", Type: TypeString, Pattern: DatetimePattern, Description: "Only return items matching this datetime or interval"},
		{Name: "limit", Type: TypeInt, Default: DefaultLimit, Ge: Bound(1), Le: Bound(MaxLimit), Description: "Maximum number of items to return"},
	}}
}

// Search converts bound values into the logical search parameters the
// client contracts consume, applying the cross-field rules neither the
// parser nor the per-field constraints can express.
func Search(vals Values) (stac.SearchBody, error) {
	body := stac.SearchBody{
		Collections: vals.StringList("collections"),
		Ids:         vals.StringList("ids"),
		Bbox:        vals.Floats("bbox"),
		Intersects:  vals.Geometry("intersects"),
		DateTime:    vals.String("datetime"),
		Limit:       vals.Int("limit"),
		Query:       vals.JSON("query"),
		Fields:      vals.Fields("fields"),
		SortBy:      vals.Sort("sortby"),
		Filter:      filterValue(vals),
		FilterLang:  vals.String("filter_lang"),
		FilterCrs:   vals.String("filter_crs"),
		Crs:         vals.String("crs"),
		BboxCrs:     vals.String("bbox_crs"),
		Token:       vals.String("pt"),
	}

	if body.Limit == 0 {
		body.Limit = DefaultLimit
	}

	if len(body.Bbox) != 0 && body.Intersects != nil {
		return stac.SearchBody{}, fmt.Errorf("%w: cannot specify both bbox and intersects", ErrInvalidParameter)
	}

	if body.DateTime == "../.." {
		return stac.SearchBody{}, fmt.Errorf("%w: both sides of the datetime interval cannot be open", ErrInvalidParameter)
	}

	return body, nil
}

// filterValue reads the filter expression regardless of request shape:
// POST bodies bind it as a raw JSON fragment, GET requests bind it as a
// cql2-text string, which is carried as a JSON string
func filterValue(vals Values) *json.RawMessage {
	if raw := vals.JSON("filter"); raw != nil {
		return raw
	}
	if expr := vals.String("filter"); expr != "" {
		encoded, err := json.Marshal(expr)
		if err != nil {
			return nil
		}
		fragment := json.RawMessage(encoded)
		return &fragment
	}
	return nil
}
