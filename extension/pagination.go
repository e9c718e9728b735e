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

// TokenPaginationExtension adds the opaque pagination token 'pt' to
// search requests. The token is backend-defined; this layer passes it
// through verbatim.
type TokenPaginationExtension struct{}

func (TokenPaginationExtension) Name() string { return TokenPagination }

func (TokenPaginationExtension) ConformanceClasses() []string { return nil }

func (TokenPaginationExtension) RequestModel(method string) *request.ParameterSet {
	field := request.FieldDescriptor{
		Name:        "pt",
		Type:        request.TypeString,
		Description: "Opaque pagination token to continue a paged listing",
	}

	switch method {
	case "GET":
		return &request.ParameterSet{Name: "GETTokenPagination", Kind: request.KindQuery, Fields: []request.FieldDescriptor{field}}
	case "POST":
		return &request.ParameterSet{Name: "POSTTokenPagination", Kind: request.KindBody, Fields: []request.FieldDescriptor{field}}
	}
	return nil
}

func (TokenPaginationExtension) SchemaHref() string { return "" }
