//
// Copyright (c) 2023 WillAbides
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vcard

import (
	"strings"

	"github.com/willabides/vcard/internal/vcardh"
)

// Param is a single name=value property parameter. Parameters keep their
// order of appearance and may repeat.
type Param = vcardh.Param

// Property is one decoded vCard property as delivered to interpreters. The
// value is a list of strings (one element for plain properties, the
// semicolon-split parts for ADR/ORG/N), or nil when the parser dropped an
// oversized BASE64 payload and for AGENT lines, which carry no value. For
// BASE64 properties Bytes additionally holds the decoded binary.
type Property struct {
	Name   string
	Groups []string
	Params []Param
	Values []string
	Bytes  []byte
}

// Value returns the first value, or "" when there is none.
func (p *Property) Value() string {
	if len(p.Values) == 0 {
		return ""
	}
	return p.Values[0]
}

// ParamValues collects the values of every parameter with the given name,
// compared case-insensitively.
func (p *Property) ParamValues(name string) []string {
	var values []string
	for _, param := range p.Params {
		if strings.EqualFold(param.Name, name) {
			values = append(values, param.Value)
		}
	}
	return values
}

// Charset returns the property's CHARSET parameter, or "" when absent.
func (p *Property) Charset() string {
	values := p.ParamValues(vcardh.ParamCharset)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
