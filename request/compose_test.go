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

package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	get  *ParameterSet
	post *ParameterSet
}

func (p fakeProvider) RequestModel(method string) *ParameterSet {
	switch method {
	case "GET":
		return p.get
	case "POST":
		return p.post
	}
	return nil
}

func TestComposeDisjointUnion(t *testing.T) {
	provider := fakeProvider{
		get: &ParameterSet{
			Name: "TestExtensionGetRequest",
			Kind: KindQuery,
			Fields: []FieldDescriptor{
				{Name: "filter", Type: TypeString},
				{Name: "filter_lang", Alias: "filter-lang", Type: TypeString, Default: "cql2-text"},
			},
		},
	}

	model, err := Compose("SearchGetRequest", BaseSearchGet(), []ModelProvider{provider}, nil, "GET")
	require.NoError(t, err)

	assert.Equal(t, KindQuery, model.Kind)
	assert.Len(t, model.Fields(), len(BaseSearchGet().Fields)+2)

	// base fields come first and keep their declarations
	limit, ok := model.Field("limit")
	require.True(t, ok)
	assert.Equal(t, DefaultLimit, limit.Default)
	require.NotNil(t, limit.Ge)
	assert.Equal(t, 1.0, *limit.Ge)
	require.NotNil(t, limit.Le)
	assert.Equal(t, float64(MaxLimit), *limit.Le)

	// contributed fields keep their alias and default
	lang, ok := model.Field("filter_lang")
	require.True(t, ok)
	assert.Equal(t, "filter-lang", lang.WireName())
	assert.Equal(t, "cql2-text", lang.Default)

	// nothing contributed for the other method leaves the model untouched
	postModel, err := Compose("SearchPostRequest", BaseSearchPost(), []ModelProvider{provider}, nil, "POST")
	require.NoError(t, err)
	_, ok = postModel.Field("filter")
	assert.False(t, ok)
}

func TestComposeMixedKinds(t *testing.T) {
	provider := fakeProvider{
		get: &ParameterSet{
			Name:   "BodyInAGetModel",
			Kind:   KindBody,
			Fields: []FieldDescriptor{{Name: "filter", Type: TypeJSON}},
		},
	}

	_, err := Compose("SearchGetRequest", BaseSearchGet(), []ModelProvider{provider}, nil, "GET")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMixedKinds)
}

func TestComposeAliasCollision(t *testing.T) {
	provider := fakeProvider{
		get: &ParameterSet{
			Name: "CollidingSet",
			Kind: KindQuery,
			Fields: []FieldDescriptor{
				{Name: "first", Alias: "shared", Type: TypeString},
				{Name: "second", Alias: "shared", Type: TypeString},
			},
		},
	}

	_, err := Compose("SearchGetRequest", BaseSearchGet(), []ModelProvider{provider}, nil, "GET")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAliasCollision)
}

func TestComposeLastRegisteredWins(t *testing.T) {
	override := ParameterSet{
		Name: "OverrideSet",
		Kind: KindQuery,
		Fields: []FieldDescriptor{
			{Name: "limit", Type: TypeInt, Default: 100, Ge: Bound(1), Le: Bound(500)},
		},
	}

	model, err := Compose("SearchGetRequest", BaseSearchGet(), nil, []ParameterSet{override}, "GET")
	require.NoError(t, err)

	// one descriptor, the later declaration
	limit, ok := model.Field("limit")
	require.True(t, ok)
	assert.Equal(t, 100, limit.Default)
	require.NotNil(t, limit.Le)
	assert.Equal(t, 500.0, *limit.Le)

	count := 0
	for _, field := range model.Fields() {
		if field.Name == "limit" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestComposeIdenticalRedeclaration(t *testing.T) {
	// declaring the same descriptor twice is not an override
	model, err := Compose("SearchGetRequest", BaseSearchGet(), nil, []ParameterSet{BaseSearchGet()}, "GET")
	require.NoError(t, err)
	assert.Len(t, model.Fields(), len(BaseSearchGet().Fields))
}

func TestComposeInvalidPattern(t *testing.T) {
	bad := ParameterSet{
		Name: "BadPatternSet",
		Kind: KindQuery,
		Fields: []FieldDescriptor{
			{Name: "broken", Type: TypeString, Pattern: "("},
		},
	}

	_, err := Compose("SearchGetRequest", BaseSearchGet(), nil, []ParameterSet{bad}, "GET")
	require.Error(t, err)
}
