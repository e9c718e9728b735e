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

package handler_test

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SDFIdk/stac-fastapi/extension"
)

func TestCreateItem(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, doc := do(t, app, http.MethodPost, "/api/stac/v1/collections/sentinel/items",
		`{"id": "item-2", "collection": "sentinel", "type": "Feature", "links": []}`)
	require.Equal(t, http.StatusCreated, status)

	var id string
	require.NoError(t, json.Unmarshal(*doc["id"], &id))
	assert.Equal(t, "item-2", id)
	assert.Contains(t, backend.items["sentinel"], "item-2")
}

func TestCreateItemValidation(t *testing.T) {
	app := newTestApp(t, newFakeBackend(), allExtensions()...)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{
			name:   "missing id",
			body:   `{"collection": "sentinel", "type": "Feature"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "malformed id",
			body:   `{"id": "has spaces", "collection": "sentinel"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "collection mismatch",
			body:   `{"id": "item-2", "collection": "landsat"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "missing collection member",
			body:   `{"id": "item-2"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "body not json",
			body:   `not json`,
			status: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := do(t, app, http.MethodPost, "/api/stac/v1/collections/sentinel/items", tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestUpdateItem(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, _ := do(t, app, http.MethodPut, "/api/stac/v1/collections/sentinel/items/item-1",
		`{"id": "item-1", "collection": "sentinel", "type": "Feature", "properties": {"updated": true}, "links": []}`)
	require.Equal(t, http.StatusOK, status)

	// path id must match the document id
	status, _ = do(t, app, http.MethodPut, "/api/stac/v1/collections/sentinel/items/item-1",
		`{"id": "other-item", "collection": "sentinel"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	// unknown item is a 404
	status, _ = do(t, app, http.MethodPut, "/api/stac/v1/collections/sentinel/items/nope",
		`{"id": "nope", "collection": "sentinel"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteItem(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, doc := do(t, app, http.MethodDelete, "/api/stac/v1/collections/sentinel/items/item-1", "")
	require.Equal(t, http.StatusOK, status)

	var code string
	require.NoError(t, json.Unmarshal(*doc["code"], &code))
	assert.Equal(t, "ItemDeleted", code)
	assert.NotContains(t, backend.items["sentinel"], "item-1")

	status, _ = do(t, app, http.MethodDelete, "/api/stac/v1/collections/sentinel/items/item-1", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCreateCollection(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, doc := do(t, app, http.MethodPost, "/api/stac/v1/collections",
		`{"id": "landsat", "title": "Landsat scenes", "links": []}`)
	require.Equal(t, http.StatusCreated, status)

	var id string
	require.NoError(t, json.Unmarshal(*doc["id"], &id))
	assert.Equal(t, "landsat", id)
	assert.Contains(t, backend.collections, "landsat")

	status, _ = do(t, app, http.MethodPost, "/api/stac/v1/collections", `{"title": "no id"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestUpdateCollection(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, _ := do(t, app, http.MethodPut, "/api/stac/v1/collections/sentinel",
		`{"id": "sentinel", "title": "Renamed", "links": []}`)
	require.Equal(t, http.StatusOK, status)

	status, _ = do(t, app, http.MethodPut, "/api/stac/v1/collections/sentinel",
		`{"id": "other", "title": "Mismatch"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = do(t, app, http.MethodPut, "/api/stac/v1/collections/nope",
		`{"id": "nope"}`)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDeleteCollection(t *testing.T) {
	backend := newFakeBackend()
	app := newTestApp(t, backend, allExtensions()...)

	status, doc := do(t, app, http.MethodDelete, "/api/stac/v1/collections/sentinel", "")
	require.Equal(t, http.StatusOK, status)

	var code string
	require.NoError(t, json.Unmarshal(*doc["code"], &code))
	assert.Equal(t, "CollectionDeleted", code)
	assert.NotContains(t, backend.collections, "sentinel")
}

func TestTransactionRoutesDisabled(t *testing.T) {
	// without the transaction extension the routes are not mounted
	app := newTestApp(t, newFakeBackend(),
		extension.FilterExtension{}, extension.TokenPaginationExtension{})

	status, _ := do(t, app, http.MethodPost, "/api/stac/v1/collections/sentinel/items",
		`{"id": "item-2", "collection": "sentinel"}`)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodDelete, "/api/stac/v1/collections/sentinel", "")
	assert.Equal(t, http.StatusNotFound, status)
}
