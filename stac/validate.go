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

import (
	"errors"
	"fmt"
	"regexp"

	json "github.com/goccy/go-json"
)

var idRe = regexp.MustCompile(`^([a-zA-Z0-9\-_\.]+)$`)

// ValidateID checks that a create/update payload carries an id field
// conforming to '^([a-zA-Z0-9\-_\.]+)$' and returns it
func ValidateID(doc map[string]*json.RawMessage) (string, error) {
	raw, ok := doc["id"]
	if !ok {
		return "", errors.New("id field is required")
	}

	id := rawString(raw)
	if id == "" {
		return "", errors.New("cannot parse id string")
	}

	if !idRe.MatchString(id) {
		return "", fmt.Errorf(`id must conform to format '^([a-zA-Z0-9\-_\.]+)$'`)
	}

	return id, nil
}

// ValidateCollectionIDsMatch checks that the collection id embedded in an
// item payload matches the collection id from the resource path
func ValidateCollectionIDsMatch(item Item, expected string) error {
	specified := item.CollectionID()
	if specified == "" {
		return errors.New("item json must carry a collection id")
	}
	if specified != expected {
		return fmt.Errorf("collection path id '%s' does not match json collection id '%s'", expected, specified)
	}
	return nil
}
