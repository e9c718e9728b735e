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

// TransactionExtension enables the item/collection create, update, and
// delete routes. It contributes no request-model fields; the routes bind
// whole resource payloads.
type TransactionExtension struct{}

func (TransactionExtension) Name() string { return Transaction }

func (TransactionExtension) ConformanceClasses() []string {
	return []string{
		"https://api.stacspec.org/v1.0.0-rc.2/ogcapi-features/extensions/transaction",
		"http://www.opengis.net/spec/ogcapi-features-4/1.0/conf/simpletx",
	}
}

func (TransactionExtension) RequestModel(string) *request.ParameterSet { return nil }

func (TransactionExtension) SchemaHref() string { return "" }
