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

package pgstac

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/stac-fastapi/stac"
)

func TestToParams(t *testing.T) {
	filter := json.RawMessage(`{"op": "=", "args": [{"property": "id"}, "item-1"]}`)
	search := &stac.SearchBody{
		Collections: []string{"sentinel"},
		Ids:         []string{"item-1"},
		Bbox:        []float64{1, 2, 3, 4},
		DateTime:    "2020-01-01T00:00:00Z",
		Limit:       25,
		Filter:      &filter,
		FilterLang:  "cql2-json",
		FilterCrs:   "http://www.opengis.net/def/crs/OGC/1.3/CRS84",
		Crs:         "http://www.opengis.net/def/crs/EPSG/0/25832",
		BboxCrs:     "http://www.opengis.net/def/crs/OGC/1.3/CRS84",
		Token:       "next:sentinel:item-1",
	}

	paramsJSON, err := json.Marshal(toParams(search))
	require.NoError(t, err)

	var params map[string]any
	require.NoError(t, json.Unmarshal(paramsJSON, &params))

	// pgstac names the pagination cursor "token", not "pt"
	assert.Equal(t, "next:sentinel:item-1", params["token"])
	assert.NotContains(t, params, "pt")

	// crs parameters ride along under their hyphenated names
	assert.Equal(t, "http://www.opengis.net/def/crs/OGC/1.3/CRS84", params["filter-crs"])
	assert.Equal(t, "http://www.opengis.net/def/crs/EPSG/0/25832", params["crs"])
	assert.Equal(t, "http://www.opengis.net/def/crs/OGC/1.3/CRS84", params["bbox-crs"])

	assert.Equal(t, "cql2-json", params["filter-lang"])
	assert.JSONEq(t, string(filter), mustJSON(t, params["filter"]))
	assert.Equal(t, float64(25), params["limit"])
}

func TestToParamsOmitsEmpty(t *testing.T) {
	paramsJSON, err := json.Marshal(toParams(&stac.SearchBody{Limit: 10}))
	require.NoError(t, err)

	var params map[string]any
	require.NoError(t, json.Unmarshal(paramsJSON, &params))

	for _, key := range []string{"collections", "ids", "bbox", "datetime",
		"filter", "filter-lang", "filter-crs", "crs", "bbox-crs", "token"} {
		assert.NotContains(t, params, key)
	}
	// limit always goes to pgstac, even at its zero value
	assert.Contains(t, params, "limit")
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}
