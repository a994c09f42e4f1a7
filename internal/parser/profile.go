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

package parser

import (
	"github.com/willabides/vcard/internal/common"
	"github.com/willabides/vcard/internal/vcardh"
)

// Profile carries the version-specific behaviour the driver parameterises
// over: the known-name sets, the structured-value splitter and the text
// unescaper. Later vCard versions differ only in these values, not in the
// driver's control flow.
type Profile struct {
	VersionString string

	KnownPropertyNames map[string]bool
	KnownTypeValues    map[string]bool
	KnownValueValues   map[string]bool
	AvailableEncodings map[string]bool

	// UnescapeText post-processes a plain decoded value. Identity for 2.1.
	UnescapeText func(string) string

	// SplitValue splits a structured value (ADR, ORG, N) into its parts.
	SplitValue func(string) []string
}

// V21 returns the vCard 2.1 profile.
func V21() *Profile {
	return &Profile{
		VersionString:      vcardh.Version21,
		KnownPropertyNames: common.KnownPropertyNames,
		KnownTypeValues:    common.KnownTypeValues,
		KnownValueValues:   common.KnownValueValues,
		AvailableEncodings: common.AvailableEncodings,
		UnescapeText:       func(s string) string { return s },
		SplitValue:         vcardh.SplitStructuredValue,
	}
}
