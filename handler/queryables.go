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

	"github.com/SDFIdk/stac-fastapi/common"
)

// Queryables returns the JSON-schema of filterable properties, for the
// whole catalog or for one collection
// GET /queryables
// GET /collections/:collectionId/queryables
func (api *API) Queryables(c *fiber.Ctx) error {
	collectionID := c.Params("collectionId")

	schema, err := api.filters.Queryables(c.Context(), collectionID)
	if err != nil {
		log.Error().Err(err).Str("collection", collectionID).Msg("failed to get queryables")
		return writeError(c, err)
	}

	return common.SchemaJSON(c, schema)
}
