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

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/SDFIdk/stac-fastapi/common"
	"github.com/SDFIdk/stac-fastapi/request"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// Search runs a cross-catalog search
// GET /search
// POST /search
func (api *API) Search(c *fiber.Ctx) error {
	hb := hrefBuilder(c)

	var vals request.Values
	var err error
	switch c.Method() {
	case fiber.MethodGet:
		vals, err = api.searchGet.BindQuery(c)
	case fiber.MethodPost:
		vals, err = api.searchPost.BindBody(c)
	default:
		log.Fatal().Str("Method", c.Method()).Msg("mis-configured routes - unsupported method")
	}
	if err != nil {
		return writeError(c, err)
	}

	search, err := request.Search(vals)
	if err != nil {
		return writeError(c, err)
	}

	var featureCollection *stac.ItemCollection
	if c.Method() == fiber.MethodGet {
		featureCollection, err = api.client.GetSearch(c.Context(), &search)
	} else {
		featureCollection, err = api.client.PostSearch(c.Context(), &search)
	}
	if err != nil {
		log.Error().Err(err).Msg("stac search returned an error")
		return writeError(c, err)
	}

	for _, item := range featureCollection.Features {
		if err := enrichItemLinks(hb, item); err != nil {
			log.Error().Err(err).Msg("error enriching item links")
			return writeError(c, err)
		}
	}

	overallLinks := make([]stac.Link, 0, 5)
	overallLinks = stac.AddLink(overallLinks, hb, "parent", "/", "application/json")
	overallLinks = stac.AddLink(overallLinks, hb, "root", "/", "application/json")

	if c.Method() == fiber.MethodGet {
		overallLinks = append(overallLinks, searchPageLinksGet(c, hb, featureCollection)...)
	} else {
		pageLinks, err := searchPageLinksPost(hb, &search, featureCollection)
		if err != nil {
			log.Error().Err(err).Msg("error serializing search body for paging links")
			return writeError(c, err)
		}
		overallLinks = append(overallLinks, pageLinks...)
	}

	return common.GeoJSON(c, stac.ItemCollection{
		Type:     "FeatureCollection",
		Context:  featureCollection.Context,
		Features: featureCollection.Features,
		Links:    overallLinks,
	})
}

// searchPageLinksGet builds self/next/previous links repeating the
// request's own query parameters plus the pagination token
func searchPageLinksGet(c *fiber.Ctx, hb *stac.HrefBuilder, featureCollection *stac.ItemCollection) []stac.Link {
	links := make([]stac.Link, 0, 3)
	queryParts := buildQueryArray(c)

	page := func(token string) string {
		parts := queryParts
		if token != "" {
			parts = append(parts, fmt.Sprintf("pt=%s", token))
		}
		if query := strings.Join(parts, "&"); query != "" {
			return fmt.Sprintf("/search?%s", query)
		}
		return "/search"
	}

	links = stac.AddLink(links, hb, "self", page(c.Query("pt", "")), "application/geo+json")
	if featureCollection.Next != "" {
		links = stac.AddLink(links, hb, "next", page(featureCollection.Next), "application/geo+json")
	}
	if featureCollection.Prev != "" {
		links = stac.AddLink(links, hb, "previous", page(featureCollection.Prev), "application/geo+json")
	}

	return links
}

// searchPageLinksPost carries the search body on each link, with the
// pagination token swapped per page
func searchPageLinksPost(hb *stac.HrefBuilder, search *stac.SearchBody, featureCollection *stac.ItemCollection) ([]stac.Link, error) {
	links := make([]stac.Link, 0, 3)

	page := func(token string) (*json.RawMessage, error) {
		body := *search
		body.Token = token
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		fragment := json.RawMessage(raw)
		return &fragment, nil
	}

	self, err := page(search.Token)
	if err != nil {
		return nil, err
	}
	links = stac.AddLinkPost(links, hb, "self", "/search", "application/geo+json", self)

	if featureCollection.Next != "" {
		next, err := page(featureCollection.Next)
		if err != nil {
			return nil, err
		}
		links = stac.AddLinkPost(links, hb, "next", "/search", "application/geo+json", next)
	}
	if featureCollection.Prev != "" {
		prev, err := page(featureCollection.Prev)
		if err != nil {
			return nil, err
		}
		links = stac.AddLinkPost(links, hb, "previous", "/search", "application/geo+json", prev)
	}

	return links, nil
}
