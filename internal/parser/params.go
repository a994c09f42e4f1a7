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

// handleParams classifies one semicolon-separated parameter token.
//
// param = "TYPE" [ws] "=" [ws] ptypeval / "VALUE" [ws] "=" [ws] pvalueval
//       / "ENCODING" [ws] "=" [ws] pencodingval / "CHARSET" [ws] "=" [ws] charsetval
//       / "LANGUAGE" [ws] "=" [ws] langval / "X-" word [ws] "=" [ws] word
//       / knowntype
func (p *Parser) handleParams(prop *vcardh.RawProperty, param string) error {
	name, value, found := strings.Cut(param, "=")
	if !found {
		// 2.1 shorthand: a bare token is a TYPE value.
		p.handleType(prop, param)
		return nil
	}
	paramName := strings.ToUpper(strings.TrimSpace(name))
	paramValue := strings.TrimSpace(value)
	switch {
	case paramName == vcardh.ParamType:
		p.handleType(prop, paramValue)
	case paramName == vcardh.ParamValue:
		p.handleValue(prop, paramValue)
	case paramName == vcardh.ParamEncoding:
		return p.handleEncoding(prop, paramValue)
	case paramName == vcardh.ParamCharset:
		// 2.1 formally allows only us-ascii and iso-8859-x, but files in
		// the wild carry UTF-8, Shift_JIS and more. Accept anything.
		prop.AddParam(vcardh.ParamCharset, paramValue)
	case paramName == vcardh.ParamLanguage:
		return p.handleLanguage(prop, paramValue)
	case strings.HasPrefix(paramName, "X-"):
		prop.AddParam(paramName, paramValue)
	default:
		return vcardh.NewError(vcardh.UnknownParam, "unknown parameter %q", paramName)
	}
	return nil
}

// handleType appends a TYPE value, warning once per value outside the known
// set that is not X- prefixed.
func (p *Parser) handleType(prop *vcardh.RawProperty, typeValue string) {
	if !(p.profile.KnownTypeValues[strings.ToUpper(typeValue)] || strings.HasPrefix(typeValue, "X-")) &&
		!p.unknownTypes[typeValue] {
		p.unknownTypes[typeValue] = true
		logger.Warn("TYPE value unsupported by vCard %s: %s", p.profile.VersionString, typeValue)
	}
	prop.AddParam(vcardh.ParamType, typeValue)
}

// handleValue appends a VALUE value with the analogous known-set check.
//
// pvalueval = "INLINE" / "URL" / "CONTENT-ID" / "CID" / "X-" word
func (p *Parser) handleValue(prop *vcardh.RawProperty, valueValue string) {
	if !(p.profile.KnownValueValues[strings.ToUpper(valueValue)] || strings.HasPrefix(valueValue, "X-")) &&
		!p.unknownValues[valueValue] {
		p.unknownValues[valueValue] = true
		logger.Warn("VALUE value unsupported by vCard %s: %s", p.profile.VersionString, valueValue)
	}
	prop.AddParam(vcardh.ParamValue, valueValue)
}

// handleEncoding validates the ENCODING value and updates the per-property
// encoding state right away; later params and the value decoding depend on
// it.
//
// pencodingval = "7BIT" / "8BIT" / "QUOTED-PRINTABLE" / "BASE64" / "X-" word
func (p *Parser) handleEncoding(prop *vcardh.RawProperty, encodingValue string) error {
	if p.profile.AvailableEncodings[encodingValue] || strings.HasPrefix(encodingValue, "X-") {
		prop.AddParam(vcardh.ParamEncoding, encodingValue)
		p.currentEncoding = encodingValue
		return nil
	}
	return vcardh.NewError(vcardh.UnknownEncoding, "unknown encoding %q", encodingValue)
}

// handleLanguage requires the RFC 1521 a-b form where both sides are one or
// more ASCII letters.
func (p *Parser) handleLanguage(prop *vcardh.RawProperty, langValue string) error {
	parts := strings.Split(langValue, "-")
	if len(parts) != 2 {
		return vcardh.NewError(vcardh.InvalidLanguage, "invalid language: %q", langValue)
	}
	for _, part := range parts {
		if part == "" {
			return vcardh.NewError(vcardh.InvalidLanguage, "invalid language: %q", langValue)
		}
		for i := 0; i < len(part); i++ {
			if !isASCIILetter(part[i]) {
				return vcardh.NewError(vcardh.InvalidLanguage, "invalid language: %q", langValue)
			}
		}
	}
	prop.AddParam(vcardh.ParamLanguage, langValue)
	return nil
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
