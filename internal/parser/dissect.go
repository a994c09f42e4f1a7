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
	"strings"

	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/vcardh"
)

// Dissection states. Group and property-name runs share one state since
// only the delimiter tells them apart.
const (
	stateGroupOrName = iota
	stateParams
	// vCard 3.0 allows double-quoted parameter values, 2.1 does not; both
	// are accepted, 2.1 with a warning.
	stateParamsInDQuote
)

// dissectLine splits one logical line into groups, name, parameters and the
// raw value. The first ':' outside double quotes terminates the parameter
// section regardless of any preceding ';'.
func (p *Parser) dissectLine(line string) (*vcardh.RawProperty, error) {
	if strings.HasPrefix(line, "#") {
		return nil, vcardh.NewError(vcardh.InvalidComment, "comment line: %q", line)
	}

	prop := &vcardh.RawProperty{}
	state := stateGroupOrName
	nameIndex := 0
	length := len(line)

	for i := 0; i < length; i++ {
		ch := line[i]
		switch state {
		case stateGroupOrName:
			switch ch {
			case ':': // End of the property name.
				if err := prop.SetName(line[nameIndex:i]); err != nil {
					return nil, err
				}
				if err := prop.SetRawValue(line[i+1:]); err != nil {
					return nil, err
				}
				return prop, nil
			case '.': // Each group is followed by the dot.
				group := line[nameIndex:i]
				if group == "" {
					logger.Warn("empty group found, ignoring")
				} else {
					prop.AddGroup(group)
				}
				nameIndex = i + 1
			case ';': // End of the property name, beginning of parameters.
				if err := prop.SetName(line[nameIndex:i]); err != nil {
					return nil, err
				}
				nameIndex = i + 1
				state = stateParams
			}
		case stateParams:
			switch ch {
			case '"':
				if p.profile.VersionString == vcardh.Version21 {
					logger.Warn("double-quoted params found in vCard 2.1, silently allowing them")
				}
				state = stateParamsInDQuote
			case ';': // Starts another param.
				if err := p.handleParams(prop, line[nameIndex:i]); err != nil {
					return nil, err
				}
				nameIndex = i + 1
			case ':': // End of params, beginning of the value.
				if err := p.handleParams(prop, line[nameIndex:i]); err != nil {
					return nil, err
				}
				if err := prop.SetRawValue(line[i+1:]); err != nil {
					return nil, err
				}
				return prop, nil
			}
		case stateParamsInDQuote:
			if ch == '"' {
				state = stateParams
			}
		}
	}

	return nil, vcardh.NewError(vcardh.InvalidLine, "invalid line: %q", line)
}
