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
	json "github.com/goccy/go-json"
)

// Item and Collection documents are owned by the STAC spec, not by this
// layer; they are carried as raw field maps so backend payloads pass
// through unchanged except for link enrichment.
type Item map[string]*json.RawMessage

type Collection map[string]*json.RawMessage

// Collections is the document returned by GET /collections
type Collections struct {
	Collections []Collection `json:"collections"`
	Links       []Link       `json:"links"`
}

// ItemCollection is a GeoJSON FeatureCollection of items plus the opaque
// pagination cursors the backend returned for it
type ItemCollection struct {
	Type     string           `json:"type"`
	Context  *json.RawMessage `json:"context,omitempty"`
	Features []Item           `json:"features"`
	Links    []Link           `json:"links,omitempty"`
	Next     string           `json:"next,omitempty"`
	Prev     string           `json:"prev,omitempty"`
}

// GeoJSON is an opaque geometry used for intersects queries
type GeoJSON struct {
	Type        string           `json:"type"`
	Coordinates *json.RawMessage `json:"coordinates,omitempty"`
	Geometries  *json.RawMessage `json:"geometries,omitempty"`
}

// ID returns the item's id field or "" when absent
func (item Item) ID() string {
	return rawString(item["id"])
}

// CollectionID returns the item's collection field or "" when absent
func (item Item) CollectionID() string {
	return rawString(item["collection"])
}

// ID returns the collection's id field or "" when absent
func (collection Collection) ID() string {
	return rawString(collection["id"])
}

// Title returns the collection's title field, falling back to its id
func (collection Collection) Title() string {
	if title := rawString(collection["title"]); title != "" {
		return title
	}
	return collection.ID()
}

// Links decodes the document's links array; a missing or null links
// field yields an empty slice
func (item Item) Links() ([]Link, error) {
	return rawLinks(item["links"])
}

func (collection Collection) Links() ([]Link, error) {
	return rawLinks(collection["links"])
}

// SetLinks replaces the document's links array
func (item Item) SetLinks(links []Link) error {
	return setRawLinks(item, links)
}

func (collection Collection) SetLinks(links []Link) error {
	return setRawLinks(collection, links)
}

func rawString(raw *json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(*raw, &s); err != nil {
		return ""
	}
	return s
}

func rawLinks(raw *json.RawMessage) ([]Link, error) {
	links := make([]Link, 0, 8)
	if raw == nil {
		return links, nil
	}
	if err := json.Unmarshal(*raw, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func setRawLinks(doc map[string]*json.RawMessage, links []Link) error {
	serialized, err := json.Marshal(links)
	if err != nil {
		return err
	}
	raw := json.RawMessage(serialized)
	doc["links"] = &raw
	return nil
}
