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
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/common"
	"github.com/SDFIdk/stac-fastapi/request"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// Item returns details of a specific item
// GET /collections/:collectionId/items/:itemId
func (api *API) Item(c *fiber.Ctx) error {
	hb := hrefBuilder(c)
	collectionID := c.Params("collectionId")
	itemID := c.Params("itemId")

	item, err := api.client.GetItem(c.Context(), collectionID, itemID)
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Str("itemId", itemID).Msg("item not found")
		return writeError(c, err)
	}

	if err := enrichItemLinks(hb, item); err != nil {
		log.Error().Err(err).Msg("error enriching item links")
		return writeError(c, err)
	}

	return common.GeoJSON(c, item)
}

// Items returns a list of items in a collection
// GET /collections/:collectionId/items
func (api *API) Items(c *fiber.Ctx) error {
	hb := hrefBuilder(c)
	collectionID := c.Params("collectionId")

	vals, err := api.items.BindQuery(c)
	if err != nil {
		return writeError(c, err)
	}

	search, err := request.Search(vals)
	if err != nil {
		return writeError(c, err)
	}

	featureCollection, err := api.client.ItemCollection(c.Context(), collectionID, &search)
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("item listing returned an error")
		return writeError(c, err)
	}

	for _, item := range featureCollection.Features {
		if err := enrichItemLinks(hb, item); err != nil {
			log.Error().Err(err).Msg("error enriching item links")
			return writeError(c, err)
		}
	}

	itemsEndpoint := fmt.Sprintf("/collections/%s/items", collectionID)
	overallLinks := make([]stac.Link, 0, 6)
	overallLinks = stac.AddLink(overallLinks, hb, "collection", fmt.Sprintf("/collections/%s", collectionID), "application/json")
	overallLinks = stac.AddLink(overallLinks, hb, "parent", fmt.Sprintf("/collections/%s", collectionID), "application/json")
	overallLinks = stac.AddLink(overallLinks, hb, "root", "/", "application/json")

	queryParts := buildQueryArray(c)
	page := func(token string) string {
		parts := queryParts
		if token != "" {
			parts = append(parts, fmt.Sprintf("pt=%s", token))
		}
		if query := strings.Join(parts, "&"); query != "" {
			return fmt.Sprintf("%s?%s", itemsEndpoint, query)
		}
		return itemsEndpoint
	}

	overallLinks = stac.AddLink(overallLinks, hb, "self", page(c.Query("pt", "")), "application/geo+json")
	if featureCollection.Next != "" {
		overallLinks = stac.AddLink(overallLinks, hb, "next", page(featureCollection.Next), "application/geo+json")
	}
	if featureCollection.Prev != "" {
		overallLinks = stac.AddLink(overallLinks, hb, "previous", page(featureCollection.Prev), "application/geo+json")
	}

	return common.GeoJSON(c, stac.ItemCollection{
		Type:     "FeatureCollection",
		Context:  featureCollection.Context,
		Features: featureCollection.Features,
		Links:    overallLinks,
	})
}
