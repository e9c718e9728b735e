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

// Package pgstac implements the storage contracts on top of a pgstac
// PostgreSQL database. All queries run against the pgstac search and
// collection functions; items and collections are passed through as raw
// JSON so pgstac stays the source of truth for document shape.
package pgstac

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/core"
	"github.com/SDFIdk/stac-fastapi/database"
	"github.com/SDFIdk/stac-fastapi/jsonutil"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// Backend serves the core, transaction, and filter contracts from a
// pgstac database pool
type Backend struct {
	pool *pgxpool.Pool
}

// New returns a backend over the process-wide pgstac pool configured by
// database.dsn
func New(ctx context.Context) *Backend {
	return &Backend{pool: database.GetInstance(ctx)}
}

// Ping reports database connectivity for health checks
func (b *Backend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// searchParams is the parameter document pgstac's search function
// accepts. It mirrors stac.SearchBody except that pgstac calls the
// pagination cursor "token" rather than "pt".
type searchParams struct {
	Collections []string             `json:"collections,omitempty"`
	Ids         []string             `json:"ids,omitempty"`
	Bbox        []float64            `json:"bbox,omitempty"`
	Intersects  *stac.GeoJSON        `json:"intersects,omitempty"`
	DateTime    string               `json:"datetime,omitempty"`
	Limit       int                  `json:"limit"`
	Conf        *json.RawMessage     `json:"conf,omitempty"`
	Query       *json.RawMessage     `json:"query,omitempty"`
	Fields      *stac.FieldSelection `json:"fields,omitempty"`
	SortBy      []stac.SortBy        `json:"sortby,omitempty"`
	Filter      *json.RawMessage     `json:"filter,omitempty"`
	FilterLang  string               `json:"filter-lang,omitempty"`
	FilterCrs   string               `json:"filter-crs,omitempty"`
	Crs         string               `json:"crs,omitempty"`
	BboxCrs     string               `json:"bbox-crs,omitempty"`
	Token       string               `json:"token,omitempty"`
}

type searchResponse struct {
	Context  *json.RawMessage `json:"context"`
	Type     string           `json:"type"`
	Features []stac.Item      `json:"features"`
	Next     string           `json:"next"`
	Prev     string           `json:"prev"`
}

func toParams(search *stac.SearchBody) searchParams {
	return searchParams{
		Collections: search.Collections,
		Ids:         search.Ids,
		Bbox:        search.Bbox,
		Intersects:  search.Intersects,
		DateTime:    search.DateTime,
		Limit:       search.Limit,
		Conf:        search.Conf,
		Query:       search.Query,
		Fields:      search.Fields,
		SortBy:      search.SortBy,
		Filter:      search.Filter,
		FilterLang:  search.FilterLang,
		FilterCrs:   search.FilterCrs,
		Crs:         search.Crs,
		BboxCrs:     search.BboxCrs,
		Token:       search.Token,
	}
}

// execMutation runs one pgstac mutation statement on a connection
// acquired for its duration
func (b *Backend) execMutation(ctx context.Context, sql string, args ...any) error {
	conn, err := database.Acquire(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire a database connection")
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, sql, args...)
	return err
}

func (b *Backend) search(ctx context.Context, params searchParams) (*stac.ItemCollection, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal search parameters")
		return nil, err
	}

	row := b.pool.QueryRow(ctx, "SELECT search FROM search($1::text::jsonb)", paramsJSON)

	var searchJSON []byte
	if err := row.Scan(&searchJSON); err != nil {
		log.Error().Err(err).Msg("failed to scan JSON from postgresql search query")
		return nil, err
	}

	var response searchResponse
	if err := json.Unmarshal(searchJSON, &response); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal search JSON")
		return nil, err
	}

	return &stac.ItemCollection{
		Type:     "FeatureCollection",
		Context:  response.Context,
		Features: response.Features,
		Next:     response.Next,
		Prev:     response.Prev,
	}, nil
}

func (b *Backend) collectionExists(ctx context.Context, collectionID string) error {
	row := b.pool.QueryRow(ctx, "SELECT id FROM pgstac.collections WHERE id=$1", collectionID)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: collection '%s'", core.ErrNotFound, collectionID)
		}
		return err
	}
	return nil
}

// GetSearch runs a search composed from GET query parameters
func (b *Backend) GetSearch(ctx context.Context, search *stac.SearchBody) (*stac.ItemCollection, error) {
	return b.search(ctx, toParams(search))
}

// PostSearch runs a search from a POST body
func (b *Backend) PostSearch(ctx context.Context, search *stac.SearchBody) (*stac.ItemCollection, error) {
	return b.search(ctx, toParams(search))
}

// GetItem fetches one item through the search function so hydration
// matches search results exactly
func (b *Backend) GetItem(ctx context.Context, collectionID string, itemID string) (stac.Item, error) {
	if err := b.collectionExists(ctx, collectionID); err != nil {
		return nil, err
	}

	conf := json.RawMessage(`{"nohydrate": false}`)
	featureCollection, err := b.search(ctx, searchParams{
		Collections: []string{collectionID},
		Ids:         []string{itemID},
		Conf:        &conf,
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(featureCollection.Features) == 0 {
		return nil, fmt.Errorf("%w: item '%s'", core.ErrNotFound, itemID)
	}
	return featureCollection.Features[0], nil
}

// GetCollection returns one collection document
func (b *Backend) GetCollection(ctx context.Context, collectionID string) (stac.Collection, error) {
	row := b.pool.QueryRow(ctx, "SELECT get_collection FROM pgstac.get_collection($1)", collectionID)

	var rawCollection string
	if err := row.Scan(&rawCollection); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: collection '%s'", core.ErrNotFound, collectionID)
		}
		return nil, err
	}
	// pgstac returns a NULL row when the collection doesn't exist
	if rawCollection == "" {
		return nil, fmt.Errorf("%w: collection '%s'", core.ErrNotFound, collectionID)
	}

	collection := make(stac.Collection, 20)
	if err := json.Unmarshal([]byte(rawCollection), &collection); err != nil {
		log.Error().Err(err).Msg("collection JSON unmarshal failed")
		return nil, err
	}
	return collection, nil
}

// AllCollections lists every collection ordered by id
func (b *Backend) AllCollections(ctx context.Context) (*stac.Collections, error) {
	rows, err := b.pool.Query(ctx, "SELECT id, content FROM pgstac.collections ORDER BY id")
	if err != nil {
		log.Error().Err(err).Msg("error querying collections table")
		return nil, err
	}
	defer rows.Close()

	collections := make([]stac.Collection, 0, 10)
	for rows.Next() {
		var collectionID string
		var rawCollection string
		if err := rows.Scan(&collectionID, &rawCollection); err != nil {
			log.Error().Err(err).Msg("could not scan collection row")
			return nil, err
		}

		collection := make(stac.Collection, 20)
		if err := json.Unmarshal([]byte(rawCollection), &collection); err != nil {
			log.Error().Err(err).Str("collectionId", collectionID).Msg("collection JSON unmarshal failed")
			return nil, err
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stac.Collections{Collections: collections}, nil
}

// ItemCollection lists items of one collection under the search
// pagination contract
func (b *Backend) ItemCollection(ctx context.Context, collectionID string, search *stac.SearchBody) (*stac.ItemCollection, error) {
	if err := b.collectionExists(ctx, collectionID); err != nil {
		return nil, err
	}

	params := toParams(search)
	params.Collections = []string{collectionID}
	return b.search(ctx, params)
}

// CreateItem stores a new item. The collection id from the path wins
// over any collection field in the document.
func (b *Backend) CreateItem(ctx context.Context, collectionID string, item stac.Item) (stac.Item, error) {
	if err := b.collectionExists(ctx, collectionID); err != nil {
		return nil, err
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal item to JSON")
		return nil, err
	}

	merged, err := jsonutil.Merge([]byte(fmt.Sprintf(`{"collection": %q}`, collectionID)), itemJSON)
	if err != nil {
		return nil, err
	}

	if err := b.execMutation(ctx, "SELECT create_item($1::text::jsonb)", []byte(merged)); err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("pgstac create_item failed")
		return nil, err
	}

	return b.GetItem(ctx, collectionID, item.ID())
}

// UpdateItem replaces an existing item wholesale
func (b *Backend) UpdateItem(ctx context.Context, collectionID string, itemID string, item stac.Item) (stac.Item, error) {
	if _, err := b.GetItem(ctx, collectionID, itemID); err != nil {
		return nil, err
	}

	itemJSON, err := json.Marshal(item)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal item to JSON")
		return nil, err
	}

	merged, err := jsonutil.Merge([]byte(fmt.Sprintf(`{"collection": %q}`, collectionID)), itemJSON)
	if err != nil {
		return nil, err
	}

	if err := b.execMutation(ctx, "SELECT update_item($1::text::jsonb)", []byte(merged)); err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Str("itemId", itemID).Msg("pgstac update_item failed")
		return nil, err
	}

	return b.GetItem(ctx, collectionID, itemID)
}

// DeleteItem removes an item from a collection
func (b *Backend) DeleteItem(ctx context.Context, collectionID string, itemID string) error {
	if _, err := b.GetItem(ctx, collectionID, itemID); err != nil {
		return err
	}

	if err := b.execMutation(ctx, "SELECT delete_item($1::text, $2::text)", itemID, collectionID); err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Str("itemId", itemID).Msg("pgstac delete_item failed")
		return err
	}
	return nil
}

// CreateCollection stores a new collection
func (b *Backend) CreateCollection(ctx context.Context, collection stac.Collection) (stac.Collection, error) {
	collectionJSON, err := json.Marshal(collection)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal collection to JSON")
		return nil, err
	}

	if err := b.execMutation(ctx, "SELECT create_collection($1::text::jsonb)", collectionJSON); err != nil {
		log.Error().Err(err).Str("id", collection.ID()).Msg("pgstac create_collection failed")
		return nil, err
	}

	return b.GetCollection(ctx, collection.ID())
}

// UpdateCollection replaces an existing collection wholesale
func (b *Backend) UpdateCollection(ctx context.Context, collectionID string, collection stac.Collection) (stac.Collection, error) {
	if _, err := b.GetCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	collectionJSON, err := json.Marshal(collection)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal collection to JSON")
		return nil, err
	}

	if err := b.execMutation(ctx, "SELECT update_collection($1::text::jsonb)", collectionJSON); err != nil {
		log.Error().Err(err).Str("id", collectionID).Msg("pgstac update_collection failed")
		return nil, err
	}

	return b.GetCollection(ctx, collectionID)
}

// DeleteCollection removes a collection
func (b *Backend) DeleteCollection(ctx context.Context, collectionID string) error {
	if _, err := b.GetCollection(ctx, collectionID); err != nil {
		return err
	}

	if err := b.execMutation(ctx, "SELECT delete_collection($1::text)", collectionID); err != nil {
		log.Error().Err(err).Str("id", collectionID).Msg("pgstac delete_collection failed")
		return err
	}
	return nil
}

// Queryables returns the JSON-schema of filterable properties;
// collectionID "" means the whole catalog
func (b *Backend) Queryables(ctx context.Context, collectionID string) (json.RawMessage, error) {
	var raw json.RawMessage
	var err error
	if collectionID == "" {
		err = b.pool.QueryRow(ctx, "SELECT get_queryables FROM get_queryables()").Scan(&raw)
	} else {
		err = b.pool.QueryRow(ctx, "SELECT get_queryables FROM get_queryables($1::text)", collectionID).Scan(&raw)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: collection '%s'", core.ErrNotFound, collectionID)
		}
		log.Error().Err(err).Str("collection", collectionID).Msg("pgstac get_queryables failed")
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: collection '%s'", core.ErrNotFound, collectionID)
	}
	return raw, nil
}
