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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/SDFIdk/stac-fastapi/extension"
	"github.com/SDFIdk/stac-fastapi/handler"
)

// SetupRoutes wires the STAC API routes. The queryables and transaction
// routes are mounted only when the corresponding extension is enabled.
func SetupRoutes(app *fiber.App, api *handler.API) {
	app.Get("/healthz", api.Healthz)

	stacAPI := app.Group("api")
	stacGroup := stacAPI.Group("stac")
	stacV1 := stacGroup.Group("v1")

	stacV1.Get("/", api.Landing)
	stacV1.Get("/conformance", api.Conformance)
	stacV1.Get("/search", api.Search)
	stacV1.Post("/search", api.Search)
	stacV1.Get("/collections", api.Collections)
	stacV1.Get("/collections/:collectionId", api.Collection)
	stacV1.Get("/collections/:collectionId/items", api.Items)
	stacV1.Get("/collections/:collectionId/items/:itemId", api.Item)

	if api.Registry().ExtensionIsEnabled(extension.Filter) {
		stacV1.Get("/queryables", api.Queryables)
		stacV1.Get("/collections/:collectionId/queryables", api.Queryables)
	}

	if api.Registry().ExtensionIsEnabled(extension.Transaction) && api.TransactionsEnabled() {
		stacV1.Post("/collections", api.CreateCollection)
		stacV1.Put("/collections/:collectionId", api.UpdateCollection)
		stacV1.Delete("/collections/:collectionId", api.DeleteCollection)
		stacV1.Post("/collections/:collectionId/items", api.CreateItem)
		stacV1.Put("/collections/:collectionId/items/:itemId", api.UpdateItem)
		stacV1.Delete("/collections/:collectionId/items/:itemId", api.DeleteItem)
	}
}
