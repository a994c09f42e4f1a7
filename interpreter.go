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
	"encoding/base64"
	"strings"

	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/vcardh"
)

// Interpreter is the coarse consumer interface. OnVCardStarted precedes
// every other event of a parse and OnVCardEnded follows every other event;
// entry events balance like parentheses, with nested entries fully enclosed
// in their parent.
type Interpreter interface {
	OnVCardStarted()
	OnVCardEnded()
	OnEntryStarted()
	OnEntryEnded()
	OnPropertyCreated(property *Property)
}

// RawInterpreter is the legacy fine-grained consumer interface. For each
// property, the group, name and param events arrive strictly between
// StartProperty and EndProperty and strictly before PropertyValues.
type RawInterpreter = vcardh.Sink

// propertyBuilder implements the fine-grained stream and assembles a
// Property per StartProperty/EndProperty pair for a coarse Interpreter.
type propertyBuilder struct {
	interpreter  Interpreter
	current      *Property
	pendingParam string
}

func (b *propertyBuilder) Start() { b.interpreter.OnVCardStarted() }
func (b *propertyBuilder) End()   { b.interpreter.OnVCardEnded() }

func (b *propertyBuilder) StartEntry() { b.interpreter.OnEntryStarted() }
func (b *propertyBuilder) EndEntry()   { b.interpreter.OnEntryEnded() }

func (b *propertyBuilder) StartProperty() {
	b.current = &Property{}
}

func (b *propertyBuilder) EndProperty() {
	b.interpreter.OnPropertyCreated(b.current)
	b.current = nil
}

func (b *propertyBuilder) PropertyGroup(group string) {
	b.current.Groups = append(b.current.Groups, group)
}

func (b *propertyBuilder) PropertyName(name string) {
	b.current.Name = name
}

func (b *propertyBuilder) PropertyParamType(paramType string) {
	b.pendingParam = paramType
}

func (b *propertyBuilder) PropertyParamValue(paramValue string) {
	b.current.Params = append(b.current.Params, Param{Name: b.pendingParam, Value: paramValue})
}

func (b *propertyBuilder) PropertyValues(values []string) {
	b.current.Values = values
	if len(values) != 1 || !b.isBase64() {
		return
	}
	decoded, err := decodeBase64(values[0])
	if err != nil {
		logger.Warn("failed to decode BASE64 value of %s: %v", b.current.Name, err)
		return
	}
	b.current.Bytes = decoded
}

func (b *propertyBuilder) isBase64() bool {
	for _, param := range b.current.Params {
		if param.Name != vcardh.ParamEncoding {
			continue
		}
		if strings.EqualFold(param.Value, vcardh.EncodingBase64) ||
			strings.EqualFold(param.Value, vcardh.EncodingB) {
			return true
		}
	}
	return false
}

// decodeBase64 tolerates stray whitespace left over from sloppy producers.
func decodeBase64(s string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
	return base64.StdEncoding.DecodeString(cleaned)
}
