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
	json "github.com/goccy/go-json"
)

type SortBy struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type FieldSelection struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// SearchBody carries the logical search parameters shared by GET /search,
// POST /search, and GET /collections/:collectionId/items. For GET requests
// it is produced from the composed query model; for POST requests it is
// the request body itself with extension fields merged in.
type SearchBody struct {
	Collections []string         `json:"collections,omitempty"`
	Ids         []string         `json:"ids,omitempty"`
	Bbox        []float64        `json:"bbox,omitempty"`
	Intersects  *GeoJSON         `json:"intersects,omitempty"`
	DateTime    string           `json:"datetime,omitempty"`
	Limit       int              `json:"limit"`
	Conf        *json.RawMessage `json:"conf,omitempty"`
	Query       *json.RawMessage `json:"query,omitempty"`
	Fields      *FieldSelection  `json:"fields,omitempty"`
	SortBy      []SortBy         `json:"sortby,omitempty"`
	Filter      *json.RawMessage `json:"filter,omitempty"`
	FilterLang  string           `json:"filter-lang,omitempty"`
	FilterCrs   string           `json:"filter-crs,omitempty"`
	Crs         string           `json:"crs,omitempty"`
	BboxCrs     string           `json:"bbox-crs,omitempty"`
	Token       string           `json:"pt,omitempty"`
}
