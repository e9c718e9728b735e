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

package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected string
	}{
		{
			name:     "disjoint keys",
			a:        `{"collection": "sentinel"}`,
			b:        `{"id": "item-1"}`,
			expected: `{"collection": "sentinel", "id": "item-1"}`,
		},
		{
			name:     "a wins on conflict",
			a:        `{"collection": "sentinel"}`,
			b:        `{"collection": "landsat", "id": "item-1"}`,
			expected: `{"collection": "sentinel", "id": "item-1"}`,
		},
		{
			name:     "nested objects merge key by key",
			a:        `{"properties": {"datetime": "2020-01-01T00:00:00Z"}}`,
			b:        `{"properties": {"gsd": 10}, "id": "item-1"}`,
			expected: `{"properties": {"datetime": "2020-01-01T00:00:00Z", "gsd": 10}, "id": "item-1"}`,
		},
		{
			name:     "arrays replaced wholesale",
			a:        `{"bbox": [1, 2, 3, 4]}`,
			b:        `{"bbox": [5, 6, 7, 8]}`,
			expected: `{"bbox": [1, 2, 3, 4]}`,
		},
		{
			name:     "empty a leaves b",
			a:        `{}`,
			b:        `{"id": "item-1"}`,
			expected: `{"id": "item-1"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged, err := Merge([]byte(tt.a), []byte(tt.b))
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(merged))
		})
	}
}

func TestMergeRejectsNonObjects(t *testing.T) {
	_, err := Merge([]byte(`[1, 2]`), []byte(`{}`))
	assert.Error(t, err)

	_, err = Merge([]byte(`{}`), []byte(`"scalar"`))
	assert.Error(t, err)
}
