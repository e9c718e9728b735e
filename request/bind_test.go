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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/stac-fastapi/stac"
)

// bindQuery runs a GET request through a fiber app and returns what the
// model bound from its query string
func bindQuery(t *testing.T, model *Model, target string) (Values, error) {
	t.Helper()

	var vals Values
	var bindErr error

	app := fiber.New()
	app.Get("/search", func(c *fiber.Ctx) error {
		vals, bindErr = model.BindQuery(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	return vals, bindErr
}

func bindBody(t *testing.T, model *Model, body string) (Values, error) {
	t.Helper()

	var vals Values
	var bindErr error

	app := fiber.New()
	app.Post("/search", func(c *fiber.Ctx) error {
		vals, bindErr = model.BindBody(c)
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	return vals, bindErr
}

func composedGetModel(t *testing.T) *Model {
	t.Helper()
	model, err := Compose("SearchGetRequest", BaseSearchGet(), nil, nil, "GET")
	require.NoError(t, err)
	return model
}

func composedPostModel(t *testing.T) *Model {
	t.Helper()
	model, err := Compose("SearchPostRequest", BaseSearchPost(), nil, nil, "POST")
	require.NoError(t, err)
	return model
}

func TestBindQueryDefaults(t *testing.T) {
	vals, err := bindQuery(t, composedGetModel(t), "/search")
	require.NoError(t, err)

	assert.Equal(t, DefaultLimit, vals.Int("limit"))
	assert.Nil(t, vals.StringList("collections"))
	assert.Empty(t, vals.String("datetime"))
}

func TestBindQueryTypedFields(t *testing.T) {
	target := "/search?collections=sentinel,landsat&ids=a,b&bbox=1,2,3,4&limit=50" +
		"&datetime=2020-01-01T00:00:00Z&sortby=-properties.datetime,id&fields=geometry,-assets"
	vals, err := bindQuery(t, composedGetModel(t), target)
	require.NoError(t, err)

	assert.Equal(t, []string{"sentinel", "landsat"}, vals.StringList("collections"))
	assert.Equal(t, []string{"a", "b"}, vals.StringList("ids"))
	assert.Equal(t, []float64{1, 2, 3, 4}, vals.Floats("bbox"))
	assert.Equal(t, 50, vals.Int("limit"))
	assert.Equal(t, "2020-01-01T00:00:00Z", vals.String("datetime"))

	require.Equal(t, []stac.SortBy{
		{Field: "properties.datetime", Direction: "desc"},
		{Field: "id", Direction: "asc"},
	}, vals.Sort("sortby"))

	selection := vals.Fields("fields")
	require.NotNil(t, selection)
	assert.Equal(t, []string{"geometry"}, selection.Include)
	assert.Equal(t, []string{"assets"}, selection.Exclude)
}

func TestBindQueryRejects(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"limit above maximum", "/search?limit=20000"},
		{"limit below minimum", "/search?limit=0"},
		{"limit not an int", "/search?limit=ten"},
		{"bbox wrong arity", "/search?bbox=1,2,3"},
		{"bbox lat inverted", "/search?bbox=1,4,3,2"},
		{"bbox not numeric", "/search?bbox=a,b,c,d"},
		{"datetime malformed", "/search?datetime=yesterday"},
		{"datetime bad month", "/search?datetime=2020-13-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bindQuery(t, composedGetModel(t), tt.target)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestBindQueryDatetimeIntervals(t *testing.T) {
	valid := []string{
		"2020-01-01T00:00:00Z",
		"2020-01-01T00:00:00.123Z",
		"2020-01-01T00:00:00%2B01:00",
		"2020-01-01T00:00:00Z/2021-01-01T00:00:00Z",
		"../2021-01-01T00:00:00Z",
		"2020-01-01T00:00:00Z/..",
	}
	for _, dt := range valid {
		t.Run(dt, func(t *testing.T) {
			_, err := bindQuery(t, composedGetModel(t), "/search?datetime="+dt)
			assert.NoError(t, err)
		})
	}
}

func TestBindBody(t *testing.T) {
	body := `{
		"collections": ["sentinel"],
		"bbox": [1, 2, 3, 4],
		"limit": 25,
		"sortby": [{"field": "id", "direction": "desc"}],
		"fields": {"include": ["geometry"], "exclude": []},
		"query": {"eo:cloud_cover": {"lt": 10}}
	}`

	vals, err := bindBody(t, composedPostModel(t), body)
	require.NoError(t, err)

	assert.Equal(t, []string{"sentinel"}, vals.StringList("collections"))
	assert.Equal(t, []float64{1, 2, 3, 4}, vals.Floats("bbox"))
	assert.Equal(t, 25, vals.Int("limit"))
	assert.Equal(t, []stac.SortBy{{Field: "id", Direction: "desc"}}, vals.Sort("sortby"))

	query := vals.JSON("query")
	require.NotNil(t, query)
	assert.JSONEq(t, `{"eo:cloud_cover": {"lt": 10}}`, string(*query))
}

func TestBindBodyDefaultsAndNull(t *testing.T) {
	vals, err := bindBody(t, composedPostModel(t), `{"limit": null}`)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, vals.Int("limit"))

	vals, err = bindBody(t, composedPostModel(t), ``)
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, vals.Int("limit"))
}

func TestBindBodyRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not an object", `[1, 2, 3]`},
		{"limit above maximum", `{"limit": 20000}`},
		{"bbox wrong arity", `{"bbox": [1, 2, 3]}`},
		{"bbox lat inverted", `{"bbox": [1, 4, 3, 2]}`},
		{"collections not an array", `{"collections": "sentinel"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bindBody(t, composedPostModel(t), tt.body)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestBindBodyAliasLookup(t *testing.T) {
	aliased := ParameterSet{
		Name: "AliasedSet",
		Kind: KindBody,
		Fields: []FieldDescriptor{
			{Name: "filter_lang", Alias: "filter-lang", Type: TypeString, Default: "cql-json"},
		},
	}
	model, err := Compose("SearchPostRequest", BaseSearchPost(), nil, []ParameterSet{aliased}, "POST")
	require.NoError(t, err)

	// wire alias binds
	vals, err := bindBody(t, model, `{"filter-lang": "cql2-json"}`)
	require.NoError(t, err)
	assert.Equal(t, "cql2-json", vals.String("filter_lang"))

	// field name is accepted as a fallback
	vals, err = bindBody(t, model, `{"filter_lang": "cql2-json"}`)
	require.NoError(t, err)
	assert.Equal(t, "cql2-json", vals.String("filter_lang"))

	// default applies when absent
	vals, err = bindBody(t, model, `{}`)
	require.NoError(t, err)
	assert.Equal(t, "cql-json", vals.String("filter_lang"))
}

func TestBindKindMismatch(t *testing.T) {
	app := fiber.New()
	getModel := composedGetModel(t)
	postModel := composedPostModel(t)

	app.All("/search", func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet {
			_, err := postModel.BindQuery(c)
			assert.Error(t, err)
		} else {
			_, err := getModel.BindBody(c)
			assert.Error(t, err)
		}
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/search", nil))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{}`)))
	require.NoError(t, err)
	resp.Body.Close()
}

func TestSearchCrossFieldRules(t *testing.T) {
	t.Run("limit default", func(t *testing.T) {
		body, err := Search(Values{})
		require.NoError(t, err)
		assert.Equal(t, DefaultLimit, body.Limit)
	})

	t.Run("bbox and intersects exclusive", func(t *testing.T) {
		_, err := Search(Values{
			"bbox":       []float64{1, 2, 3, 4},
			"intersects": &stac.GeoJSON{Type: "Point"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("double open interval rejected", func(t *testing.T) {
		_, err := Search(Values{"datetime": "../.."})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("token carried through", func(t *testing.T) {
		body, err := Search(Values{"pt": "next:page"})
		require.NoError(t, err)
		assert.Equal(t, "next:page", body.Token)
	})
}

func TestSearchGetFilterString(t *testing.T) {
	// GET requests carry the filter as a cql2-text string; it must come
	// out of Search as a JSON string fragment, not get dropped
	filterSet := ParameterSet{
		Name: "TextFilterSet",
		Kind: KindQuery,
		Fields: []FieldDescriptor{
			{Name: "filter", Type: TypeString},
			{Name: "filter_lang", Alias: "filter-lang", Type: TypeString, Default: "cql2-text"},
		},
	}
	model, err := Compose("SearchGetRequest", BaseSearchGet(), nil, []ParameterSet{filterSet}, "GET")
	require.NoError(t, err)

	vals, err := bindQuery(t, model, "/search?filter=id%3D'item-1'&filter-lang=cql2-text")
	require.NoError(t, err)

	body, err := Search(vals)
	require.NoError(t, err)
	assert.Equal(t, "cql2-text", body.FilterLang)
	require.NotNil(t, body.Filter)
	assert.Equal(t, `"id='item-1'"`, string(*body.Filter))
}

func TestSearchFilterJSONPassthrough(t *testing.T) {
	fragment := json.RawMessage(`{"op": "=", "args": [{"property": "id"}, "item-1"]}`)
	body, err := Search(Values{"filter": &fragment})
	require.NoError(t, err)
	require.NotNil(t, body.Filter)
	assert.JSONEq(t, string(fragment), string(*body.Filter))
}

func TestParseSort(t *testing.T) {
	sort, err := parseSort("+datetime,-cloud_cover,id")
	require.NoError(t, err)
	assert.Equal(t, []stac.SortBy{
		{Field: "datetime", Direction: "asc"},
		{Field: "cloud_cover", Direction: "desc"},
		{Field: "id", Direction: "asc"},
	}, sort)

	_, err = parseSort("-")
	assert.Error(t, err)
}
