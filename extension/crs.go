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

// CrsDefault is the CRS assumed when a request names none
const CrsDefault = "http://www.opengis.net/def/crs/OGC/1.3/CRS84"

// CrsSupported lists the CRS URIs requests may name
var CrsSupported = []string{
	CrsDefault,
	"http://www.opengis.net/def/crs/EPSG/0/25832",
}

const crsPattern = `^(http://www\.opengis\.net/def/crs/OGC/1\.3/CRS84|http://www\.opengis\.net/def/crs/EPSG/0/25832)$`

// CrsExtension lets requests name the coordinate reference system of
// bounding boxes and response geometries
type CrsExtension struct{}

func (CrsExtension) Name() string { return Crs }

func (CrsExtension) ConformanceClasses() []string {
	return []string{
		"http://www.opengis.net/spec/ogcapi-features-2/1.0/conf/crs",
	}
}

func (CrsExtension) RequestModel(method string) *request.ParameterSet {
	fields := []request.FieldDescriptor{
		{Name: "crs", Type: request.TypeString, Default: CrsDefault, Pattern: crsPattern, Description: "CRS of response geometries"},
		{Name: "bbox_crs", Alias: "bbox-crs", Type: request.TypeString, Default: CrsDefault, Pattern: crsPattern, Description: "CRS of the bbox parameter"},
	}

	switch method {
	case "GET":
		return &request.ParameterSet{Name: "CrsExtensionGetRequest", Kind: request.KindQuery, Fields: fields}
	case "POST":
		return &request.ParameterSet{Name: "CrsExtensionPostRequest", Kind: request.KindBody, Fields: fields}
	}
	return nil
}

func (CrsExtension) SchemaHref() string { return "" }
