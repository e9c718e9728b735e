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

package extension

import (
	"github.com/SDFIdk/stac-fastapi/request"
)

const filterLangPattern = `^(cql-json|cql2-json|cql2-text)$`

// FilterExtension adds CQL2 filtering to search requests and a
// queryables route exposing the filterable properties
type FilterExtension struct{}

func (FilterExtension) Name() string { return Filter }

func (FilterExtension) ConformanceClasses() []string {
	return []string{
		"http://www.opengis.net/spec/ogcapi-features-3/1.0/conf/filter",
		"http://www.opengis.net/spec/ogcapi-features-3/1.0/conf/features-filter",
		"http://www.opengis.net/spec/cql2/1.0/conf/basic-cql2",
		"http://www.opengis.net/spec/cql2/1.0/conf/cql2-json",
		"https://api.stacspec.org/v1.0.0-rc.2/item-search#filter",
	}
}

func (FilterExtension) RequestModel(method string) *request.ParameterSet {
	switch method {
	case "GET":
		return &request.ParameterSet{
			Name: "FilterExtensionGetRequest",
			Kind: request.KindQuery,
			Fields: []request.FieldDescriptor{
				{Name: "filter", Type: request.TypeString, Description: "CQL2 filter expression"},
				{Name: "filter_lang", Alias: "filter-lang", Type: request.TypeString, Default: "cql2-text", Pattern: filterLangPattern, Description: "CQL2 filter language"},
				{Name: "filter_crs", Alias: "filter-crs", Type: request.TypeString, Default: CrsDefault, Pattern: crsPattern, Description: "CRS of the filter geometry"},
			},
		}
	case "POST":
		return &request.ParameterSet{
			Name: "FilterExtensionPostRequest",
			Kind: request.KindBody,
			Fields: []request.FieldDescriptor{
				{Name: "filter", Type: request.TypeJSON, Description: "CQL2 filter expression"},
				{Name: "filter_lang", Alias: "filter-lang", Type: request.TypeString, Default: "cql-json", Pattern: filterLangPattern, Description: "CQL2 filter language"},
				{Name: "filter_crs", Alias: "filter-crs", Type: request.TypeString, Default: CrsDefault, Pattern: crsPattern, Description: "CRS of the filter geometry"},
			},
		}
	}
	return nil
}

func (FilterExtension) SchemaHref() string { return "" }
