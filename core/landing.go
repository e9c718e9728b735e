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

package core

import (
	"context"
	"fmt"

	"github.com/SDFIdk/stac-fastapi/extension"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// CatalogMeta identifies the catalog on the landing page
type CatalogMeta struct {
	ID          string
	Title       string
	Description string
}

// LandingPage assembles the root catalog document. Link order is fixed:
// self, root, data, conformance, search GET, search POST, queryables
// when the filter extension is enabled, one child per collection in the
// order the backend returns them, service-desc, service-doc.
func LandingPage(ctx context.Context, client CoreClient, registry *Registry, hb *stac.HrefBuilder, meta CatalogMeta) (*stac.LandingPage, error) {
	links := make([]stac.Link, 0, 16)
	links = append(links, stac.Link{
		Rel:  "self",
		Type: "application/json",
		Href: hb.Build("/"),
	})
	links = append(links, stac.Link{
		Rel:  "root",
		Type: "application/json",
		Href: hb.Build("/"),
	})
	links = append(links, stac.Link{
		Rel:  "data",
		Type: "application/json",
		Href: hb.Build("/collections"),
	})
	links = append(links, stac.Link{
		Rel:   "conformance",
		Type:  "application/json",
		Title: "STAC/OGC conformance classes implemented by this server",
		Href:  hb.Build("/conformance"),
	})
	links = append(links, stac.Link{
		Rel:    "search",
		Type:   "application/geo+json",
		Title:  "STAC search",
		Href:   hb.Build("/search"),
		Method: "GET",
	})
	links = append(links, stac.Link{
		Rel:    "search",
		Type:   "application/geo+json",
		Title:  "STAC search",
		Href:   hb.Build("/search"),
		Method: "POST",
	})

	if registry.ExtensionIsEnabled(extension.Filter) {
		links = append(links, stac.Link{
			Rel:    "http://www.opengis.net/def/rel/ogc/1.0/queryables",
			Type:   "application/schema+json",
			Title:  "Queryables",
			Href:   hb.Build("/queryables"),
			Method: "GET",
		})
	}

	collections, err := client.AllCollections(ctx)
	if err != nil {
		return nil, err
	}
	for _, collection := range collections.Collections {
		links = append(links, stac.Link{
			Rel:   "child",
			Type:  "application/json",
			Title: collection.Title(),
			Href:  hb.Build(fmt.Sprintf("/collections/%s", collection.ID())),
		})
	}

	links = append(links, stac.Link{
		Rel:   "service-desc",
		Type:  "application/vnd.oai.openapi+json;version=3.0",
		Title: "OpenAPI service description",
		Href:  hb.BuildBase("/openapi.json"),
	})
	links = append(links, stac.Link{
		Rel:   "service-doc",
		Type:  "text/html",
		Title: "OpenAPI service documentation",
		Href:  hb.BuildBase("/doc/"),
	})

	return &stac.LandingPage{
		Type:           "Catalog",
		ID:             meta.ID,
		Title:          meta.Title,
		Description:    meta.Description,
		StacVersion:    stac.Version,
		ConformsTo:     registry.ConformanceClasses(),
		Links:          links,
		StacExtensions: registry.SchemaHrefs(),
	}, nil
}
