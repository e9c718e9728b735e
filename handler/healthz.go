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
)

// Healthz reports service liveness and, when the backend supports it,
// backend connectivity
// GET /healthz
func (api *API) Healthz(c *fiber.Ctx) error {
	overallHealth := "OK"
	backendHealth := "OK"

	if api.health != nil {
		if err := api.health.Ping(c.Context()); err != nil {
			log.Error().Err(err).Msg("backend ping failed")
			backendHealth = "FAILED"
			overallHealth = "FAILED"
		}
	}

	return c.JSON(map[string]string{
		"status":  overallHealth,
		"backend": backendHealth,
	})
}
