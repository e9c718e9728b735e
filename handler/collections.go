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
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/stac"
)

// Collections returns a list of collections managed by this STAC server
// GET /collections
func (api *API) Collections(c *fiber.Ctx) error {
	hb := hrefBuilder(c)

	collections, err := api.client.AllCollections(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("error listing collections")
		return writeError(c, err)
	}

	for _, collection := range collections.Collections {
		if err := enrichCollectionLinks(hb, collection); err != nil {
			log.Error().Err(err).Msg("error enriching collection links")
			return writeError(c, err)
		}
	}

	overallLinks := make([]stac.Link, 0, 3)
	overallLinks = stac.AddLink(overallLinks, hb, "self", "/collections", "application/json")
	overallLinks = stac.AddLink(overallLinks, hb, "root", "/", "application/json")
	overallLinks = stac.AddLink(overallLinks, hb, "parent", "/", "application/json")
	collections.Links = overallLinks

	return c.JSON(collections)
}

// Collection returns details of a specific collection
// GET /collections/:collectionId
func (api *API) Collection(c *fiber.Ctx) error {
	return api.collectionFromID(c, c.Params("collectionId"))
}

func (api *API) collectionFromID(c *fiber.Ctx, collectionID string) error {
	hb := hrefBuilder(c)

	collection, err := api.client.GetCollection(c.Context(), collectionID)
	if err != nil {
		log.Error().Err(err).Str("collectionId", collectionID).Msg("collection not found")
		return writeError(c, err)
	}

	if err := enrichCollectionLinks(hb, collection); err != nil {
		log.Error().Err(err).Msg("error enriching collection links")
		return writeError(c, err)
	}

	return c.JSON(collection)
}
