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

package stac

// Version is the STAC specification version implemented by this server
const Version = "1.0.0"

// LandingPage is the root catalog document returned by GET /
type LandingPage struct {
	Type           string   `json:"type"`
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	StacVersion    string   `json:"stac_version"`
	ConformsTo     []string `json:"conformsTo"`
	Links          []Link   `json:"links"`
	StacExtensions []string `json:"stac_extensions"`
}

// Conformance is the document returned by GET /conformance
type Conformance struct {
	ConformsTo []string `json:"conformsTo"`
}

// BaseConformanceClasses are the classes every deployment advertises
// regardless of which extensions are enabled. Extension classes are
// unioned in by core.Registry.
var BaseConformanceClasses = []string{
	"https://api.stacspec.org/v1.0.0/core",
	"https://api.stacspec.org/v1.0.0/collections",
	"https://api.stacspec.org/v1.0.0/item-search",
	"https://api.stacspec.org/v1.0.0/ogcapi-features",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/core",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/geojson",
	"http://www.opengis.net/spec/ogcapi-features-1/1.0/conf/oas30",
}
