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

package handler

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/common"
	"github.com/SDFIdk/stac-fastapi/request"
	"github.com/SDFIdk/stac-fastapi/stac"
)

func parseDocument(c *fiber.Ctx) (map[string]*json.RawMessage, error) {
	doc := make(map[string]*json.RawMessage)
	if err := json.Unmarshal(c.Body(), &doc); err != nil {
		log.Error().Err(err).Str("RequestBody", string(c.Body())).Msg("cannot unmarshal provided JSON")
		return nil, fmt.Errorf("%w: body must be a valid JSON object", request.ErrInvalidParameter)
	}
	return doc, nil
}

// CreateItem stores a new item in a collection
// POST /collections/:collectionId/items
func (api *API) CreateItem(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")

	doc, err := parseDocument(c)
	if err != nil {
		return writeError(c, err)
	}
	item := stac.Item(doc)

	if _, err := stac.ValidateID(doc); err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}
	if err := stac.ValidateCollectionIDsMatch(item, collectionID); err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}

	created, err := api.transactions.CreateItem(c.Context(), collectionID, item)
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("failed to create item")
		return writeError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return common.GeoJSON(c, created)
}

// UpdateItem replaces an existing item wholesale; partial updates are
// not supported
// PUT /collections/:collectionId/items/:itemId
func (api *API) UpdateItem(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")
	itemID := c.Params("itemId")

	doc, err := parseDocument(c)
	if err != nil {
		return writeError(c, err)
	}
	item := stac.Item(doc)

	id, err := stac.ValidateID(doc)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}
	if id != itemID {
		return writeError(c, fmt.Errorf("%w: item path id does not match json id", request.ErrInvalidParameter))
	}
	if err := stac.ValidateCollectionIDsMatch(item, collectionID); err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}

	updated, err := api.transactions.UpdateItem(c.Context(), collectionID, itemID, item)
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Str("itemId", itemID).Msg("failed to update item")
		return writeError(c, err)
	}

	return common.GeoJSON(c, updated)
}

// DeleteItem removes an item from a collection
// DELETE /collections/:collectionId/items/:itemId
func (api *API) DeleteItem(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")
	itemID := c.Params("itemId")

	if err := api.transactions.DeleteItem(c.Context(), collectionID, itemID); err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Str("itemId", itemID).Msg("failed to delete item")
		return writeError(c, err)
	}

	return c.JSON(stac.Message{
		Code:        "ItemDeleted",
		Description: "the item was successfully deleted",
	})
}

// CreateCollection stores a new collection
// POST /collections
func (api *API) CreateCollection(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return writeError(c, err)
	}

	if _, err := stac.ValidateID(doc); err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}

	created, err := api.transactions.CreateCollection(c.Context(), stac.Collection(doc))
	if err != nil {
		log.Error().Err(err).Msg("failed to create collection")
		return writeError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return c.JSON(created)
}

// UpdateCollection replaces an existing collection wholesale
// PUT /collections/:collectionId
func (api *API) UpdateCollection(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")

	doc, err := parseDocument(c)
	if err != nil {
		return writeError(c, err)
	}

	id, err := stac.ValidateID(doc)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %s", request.ErrInvalidParameter, err.Error()))
	}
	if id != collectionID {
		return writeError(c, fmt.Errorf("%w: collection path id does not match json id", request.ErrInvalidParameter))
	}

	updated, err := api.transactions.UpdateCollection(c.Context(), collectionID, stac.Collection(doc))
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("failed to update collection")
		return writeError(c, err)
	}

	return c.JSON(updated)
}

// DeleteCollection removes a collection
// DELETE /collections/:collectionId
func (api *API) DeleteCollection(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")

	if err := api.transactions.DeleteCollection(c.Context(), collectionID); err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("failed to delete collection")
		return writeError(c, err)
	}

	return c.JSON(stac.Message{
		Code:        "CollectionDeleted",
		Description: "the collection was successfully deleted",
	})
}
