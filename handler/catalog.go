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

	"github.com/SDFIdk/stac-fastapi/core"
	"github.com/SDFIdk/stac-fastapi/stac"
)

// Landing returns the root catalog document
// GET /
func (api *API) Landing(c *fiber.Ctx) error {
	landingPage, err := core.LandingPage(c.Context(), api.client, api.registry, hrefBuilder(c), api.catalog)
	if err != nil {
		log.Error().Err(err).Msg("could not assemble landing page")
		return writeError(c, err)
	}

	return c.JSON(landingPage)
}

// Conformance lists the conformance classes this deployment advertises
// GET /conformance
func (api *API) Conformance(c *fiber.Ctx) error {
	return c.JSON(stac.Conformance{
		ConformsTo: api.registry.ConformanceClasses(),
	})
}
