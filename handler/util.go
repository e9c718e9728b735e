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
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/core"
	"github.com/SDFIdk/stac-fastapi/middleware"
	"github.com/SDFIdk/stac-fastapi/request"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// getBaseURL returns the external base URL the proxy middleware
// resolved, falling back to the raw request when the middleware is not
// installed
func getBaseURL(c *fiber.Ctx) string {
	if baseURL, ok := c.Locals(middleware.BaseURLKey).(string); ok && baseURL != "" {
		return baseURL
	}
	return fmt.Sprintf("%s://%s", c.Protocol(), c.Hostname())
}

func hrefBuilder(c *fiber.Ctx) *stac.HrefBuilder {
	return stac.NewHrefBuilder(getBaseURL(c))
}

// writeError maps contract and binding errors onto the common error
// document shape
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, request.ErrInvalidParameter):
		c.Status(fiber.ErrUnprocessableEntity.Code)
		return c.JSON(stac.Message{
			Code:        stac.ParameterError,
			Description: err.Error(),
		})
	case errors.Is(err, core.ErrNotFound):
		c.Status(fiber.ErrNotFound.Code)
		return c.JSON(stac.Message{
			Code:        stac.NotFoundError,
			Description: err.Error(),
		})
	default:
		log.Error().Stack().Err(err).Msg("backend returned an error")
		c.Status(fiber.ErrInternalServerError.Code)
		return c.JSON(stac.Message{
			Code:        stac.ServerError,
			Description: "internal server error",
		})
	}
}

// buildQueryArray re-assembles the request's own search parameters so
// self/next/prev links repeat them
func buildQueryArray(c *fiber.Ctx) []string {
	queryParts := make([]string, 0, 8)
	possible := []string{
		"collections", "ids", "limit", "bbox", "intersects", "datetime",
		"query", "sortby", "fields",
		"filter", "filter-lang", "filter-crs", "crs", "bbox-crs",
	}

	for _, key := range possible {
		val := c.Query(key, "")
		if val != "" {
			queryParts = append(queryParts, fmt.Sprintf("%s=%s", key, val))
		}
	}

	return queryParts
}

// enrichItemLinks rewrites an item's collection link against this
// server's base URL and appends parent, root, and self references
func enrichItemLinks(hb *stac.HrefBuilder, item stac.Item) error {
	itemID := item.ID()
	collectionID := item.CollectionID()

	links, err := item.Links()
	if err != nil {
		return err
	}

	for idx, link := range links {
		if link.Rel == "collection" {
			link.Href = hb.Build(fmt.Sprintf("/collections/%s", collectionID))
		}
		links[idx] = link
	}

	links = stac.AddLink(links, hb, "parent", fmt.Sprintf("/collections/%s", collectionID), "application/json")
	links = stac.AddLink(links, hb, "root", "/", "application/json")
	links = stac.AddLink(links, hb, "self", fmt.Sprintf("/collections/%s/items/%s", collectionID, itemID), "application/geo+json")

	return item.SetLinks(links)
}

// enrichCollectionLinks appends self, root, parent, and items references
// to a collection document and forces its type member
func enrichCollectionLinks(hb *stac.HrefBuilder, collection stac.Collection) error {
	links, err := collection.Links()
	if err != nil {
		return err
	}

	collectionsEndpoint := fmt.Sprintf("/collections/%s", collection.ID())
	links = stac.AddLink(links, hb, "self", collectionsEndpoint, "application/json")
	links = stac.AddLink(links, hb, "root", "/", "application/json")
	links = stac.AddLink(links, hb, "parent", "/", "application/json")
	links = stac.AddLink(links, hb, "items", fmt.Sprintf("%s/items", collectionsEndpoint), "application/geo+json")

	if err := collection.SetLinks(links); err != nil {
		return err
	}

	collectionType := rawJSON(`"Collection"`)
	collection["type"] = collectionType
	return nil
}

func rawJSON(fragment string) *json.RawMessage {
	raw := json.RawMessage(fragment)
	return &raw
}
