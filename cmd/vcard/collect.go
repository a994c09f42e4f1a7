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

package main

import (
	"github.com/google/uuid"
	"github.com/willabides/vcard"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// entry is one collected vCard, nested entries flattened into the list in
// start order.
type entry struct {
	ID         string            `json:"id"`
	Depth      int               `json:"depth,omitempty"`
	Properties []*vcard.Property `json:"properties"`
}

// collector gathers decoded properties per entry for the dump and count
// commands.
type collector struct {
	entries []*entry
	stack   []*entry
}

func (c *collector) OnVCardStarted() {}
func (c *collector) OnVCardEnded()   {}

func (c *collector) OnEntryStarted() {
	e := &entry{ID: uuid.NewString(), Depth: len(c.stack)}
	c.entries = append(c.entries, e)
	c.stack = append(c.stack, e)
}

func (c *collector) OnEntryEnded() {
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *collector) OnPropertyCreated(property *vcard.Property) {
	current := c.stack[len(c.stack)-1]
	current.Properties = append(current.Properties, property)
}

// recodeValue converts a decoded value to UTF-8 according to the property's
// CHARSET parameter. The parser's intermediate charset maps bytes to runes
// 1:1, so the original bytes are recovered through the Latin-1 encoder
// before decoding with the declared charset. Unresolvable charsets leave
// the value as-is.
func recodeValue(value, charsetName string) string {
	if charsetName == "" {
		return value
	}
	enc, err := ianaindex.IANA.Encoding(charsetName)
	if err != nil || enc == nil {
		return value
	}
	raw, err := charmap.ISO8859_1.NewEncoder().String(value)
	if err != nil {
		return value
	}
	decoded, err := enc.NewDecoder().String(raw)
	if err != nil {
		return value
	}
	return decoded
}
