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

// Package core declares the contracts a storage backend implements to
// serve the STAC API, and assembles the responses that are derived from
// those contracts rather than stored: the landing page and the
// conformance document.
//
// Every operation takes a context.Context; a backend is free to block on
// I/O inside it. Nothing in this package is mutated after startup, so
// the contracts are safe for concurrent use without locking.
package core

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"

	"github.com/SDFIdk/stac-fastapi/stac"
)

// ErrNotFound is returned when a requested item, collection, or
// extension does not exist. Handlers surface it as a 404.
var ErrNotFound = errors.New("not found")

// CoreClient is the contract every backend must implement
type CoreClient interface {
	// GetSearch runs a cross-catalog search built from query parameters
	GetSearch(ctx context.Context, search *stac.SearchBody) (*stac.ItemCollection, error)

	// PostSearch runs a cross-catalog search from a JSON body
	PostSearch(ctx context.Context, search *stac.SearchBody) (*stac.ItemCollection, error)

	// GetItem returns one item; ErrNotFound when the collection or the
	// item does not exist
	GetItem(ctx context.Context, collectionID string, itemID string) (stac.Item, error)

	// GetCollection returns one collection; ErrNotFound when absent
	GetCollection(ctx context.Context, collectionID string) (stac.Collection, error)

	// AllCollections lists every collection; paging is backend-defined
	AllCollections(ctx context.Context) (*stac.Collections, error)

	// ItemCollection lists items of one collection under the same
	// pagination contract as search
	ItemCollection(ctx context.Context, collectionID string, search *stac.SearchBody) (*stac.ItemCollection, error)
}

// TransactionClient is the optional contract behind the transaction
// extension. Updates are full-resource replacements, never partial
// patches.
type TransactionClient interface {
	CreateItem(ctx context.Context, collectionID string, item stac.Item) (stac.Item, error)
	UpdateItem(ctx context.Context, collectionID string, itemID string, item stac.Item) (stac.Item, error)
	DeleteItem(ctx context.Context, collectionID string, itemID string) error
	CreateCollection(ctx context.Context, collection stac.Collection) (stac.Collection, error)
	UpdateCollection(ctx context.Context, collectionID string, collection stac.Collection) (stac.Collection, error)
	DeleteCollection(ctx context.Context, collectionID string) error
}

// FilterClient is the optional contract behind the filter extension.
// collectionID is "" when the queryables of the whole catalog are
// requested.
type FilterClient interface {
	Queryables(ctx context.Context, collectionID string) (json.RawMessage, error)
}

// DefaultFilterClient serves an empty-properties queryables schema for
// backends that do not expose property schemas. An empty schema is not
// allowed under OGC CQL but is allowed by the STAC filter extension.
type DefaultFilterClient struct{}

func (DefaultFilterClient) Queryables(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage(`{
  "$schema": "https://json-schema.org/draft/2019-09/schema",
  "$id": "https://example.org/queryables",
  "type": "object",
  "title": "Queryables for STAC API",
  "description": "Queryable names for the STAC API Item Search filter.",
  "properties": {}
}`), nil
}
