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

// Package handler binds the composed request models and the client
// contracts to fiber routes.
package handler

import (
	"context"

	"github.com/SDFIdk/stac-fastapi/core"
	"github.com/SDFIdk/stac-fastapi/request"
)

// HealthChecker is implemented by backends that can report liveness
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Config assembles an API. Client and Registry are required;
// Transactions gates the transaction routes, Filters defaults to the
// empty-schema client, Mixins optionally augment the composed models
// per HTTP method.
type Config struct {
	Client       core.CoreClient
	Transactions core.TransactionClient
	Filters      core.FilterClient
	Health       HealthChecker
	Registry     *core.Registry
	Catalog      core.CatalogMeta
	Mixins       map[string][]request.ParameterSet
}

// API holds the process-lifetime state handlers share: the client
// contracts and the request models composed once at startup
type API struct {
	client       core.CoreClient
	transactions core.TransactionClient
	filters      core.FilterClient
	health       HealthChecker
	registry     *core.Registry
	catalog      core.CatalogMeta

	searchGet  *request.Model
	searchPost *request.Model
	items      *request.Model
}

// New composes the request models from the base parameter sets and the
// registry's enabled extensions. A misconfigured extension (mixed model
// kinds, alias collision) fails here, at startup, never at request time.
func New(cfg Config) (*API, error) {
	providers := cfg.Registry.Providers()

	searchGet, err := request.Compose("SearchGetRequest", request.BaseSearchGet(), providers, cfg.Mixins["GET"], "GET")
	if err != nil {
		return nil, err
	}

	searchPost, err := request.Compose("SearchPostRequest", request.BaseSearchPost(), providers, cfg.Mixins["POST"], "POST")
	if err != nil {
		return nil, err
	}

	items, err := request.Compose("ItemCollectionRequest", request.BaseItemCollection(), providers, nil, "GET")
	if err != nil {
		return nil, err
	}

	filters := cfg.Filters
	if filters == nil {
		filters = core.DefaultFilterClient{}
	}

	return &API{
		client:       cfg.Client,
		transactions: cfg.Transactions,
		filters:      filters,
		health:       cfg.Health,
		registry:     cfg.Registry,
		catalog:      cfg.Catalog,
		searchGet:    searchGet,
		searchPost:   searchPost,
		items:        items,
	}, nil
}

// Registry exposes the extension registry for route wiring
func (api *API) Registry() *core.Registry {
	return api.registry
}

// TransactionsEnabled reports whether the transaction routes can be
// served
func (api *API) TransactionsEnabled() bool {
	return api.transactions != nil
}

// SearchGetModel returns the composed GET search model
func (api *API) SearchGetModel() *request.Model { return api.searchGet }

// SearchPostModel returns the composed POST search model
func (api *API) SearchPostModel() *request.Model { return api.searchPost }

// ItemsModel returns the composed item-collection model
func (api *API) ItemsModel() *request.Model { return api.items }
