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
	"io"
	"strings"

	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/vcardh"
)

// handlePropertyValue decodes an ordinary property value per the active
// encoding and delivers the values event.
func (p *Parser) handlePropertyValue(rawValue string) error {
	enc := strings.ToUpper(p.currentEncoding)
	switch {
	case enc == vcardh.EncodingQP:
		result, err := p.readQuotedPrintable(rawValue)
		if err != nil {
			return err
		}
		p.emitPropertyValues([]string{result})
	case enc == vcardh.EncodingBase64 || enc == vcardh.EncodingB:
		result, ok, err := p.readBase64(rawValue)
		if err != nil {
			return err
		}
		if !ok {
			p.emitPropertyValues(nil)
			return nil
		}
		p.emitPropertyValues([]string{result})
	default:
		if !(enc == vcardh.Encoding7Bit || enc == vcardh.Encoding8Bit || strings.HasPrefix(enc, "X-")) {
			logger.Warn("the encoding %q is unsupported by vCard %s",
				p.currentEncoding, p.profile.VersionString)
		}
		unfolded, err := p.unfoldValue(rawValue)
		if err != nil {
			return err
		}
		p.emitPropertyValues([]string{p.profile.UnescapeText(unfolded)})
	}
	return nil
}

// readQuotedPrintable reassembles a Quoted-Printable value spanning multiple
// lines. A line whose trimmed form ends with '=' continues on the next line;
// RFC 2045 allows transport padding (spaces and tabs) between the '=' and
// the CRLF, which is stripped. The QP text itself is handed over undecoded,
// joined with CRLF across the soft breaks.
//
// qp-line := *(qp-segment transport-padding CRLF) qp-part transport-padding
// qp-segment := qp-section *(SPACE / TAB) "="
func (p *Parser) readQuotedPrintable(firstString string) (string, error) {
	trimmed := strings.TrimRight(firstString, " \t")
	if !strings.HasSuffix(trimmed, "=") {
		return firstString, nil
	}

	var sb strings.Builder
	sb.WriteString(trimmed)
	sb.WriteString("\r\n")
	for {
		line, err := p.reader.ReadLine()
		if err == io.EOF {
			return "", vcardh.NewError(vcardh.UnexpectedEOF,
				"stream ended during parsing a quoted-printable string")
		}
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "=") {
			sb.WriteString(trimmed)
			sb.WriteString("\r\n")
			continue
		}
		sb.WriteString(line)
		return sb.String(), nil
	}
}

// readBase64 accumulates a BASE64 value across lines. Per 2.1 the payload
// ends with a blank line, but some producers omit it; a lookahead line whose
// prefix before a ':' is a known property name ends the payload without
// being consumed. Payloads over the configured size limit are dropped: the
// remaining lines are drained and ok is returned false.
func (p *Parser) readBase64(firstString string) (result string, ok bool, err error) {
	var sb strings.Builder
	sb.WriteString(firstString)
	overflow := false

	for {
		line, err := p.reader.PeekLine()
		if err == io.EOF {
			return "", false, vcardh.NewError(vcardh.UnexpectedEOF,
				"stream ended during parsing BASE64 binary")
		}
		if err != nil {
			return "", false, err
		}

		if before, _, found := strings.Cut(line, ":"); found {
			if p.profile.KnownPropertyNames[strings.ToUpper(before)] {
				logger.Warn("found a next property during parsing a BASE64 string; treating the line as the next property")
				logger.Warn("problematic line: %s", strings.TrimSpace(line))
				break
			}
		}

		// Consume the line.
		if _, err := p.reader.ReadLine(); err != nil && err != io.EOF {
			return "", false, err
		}
		if line == "" {
			break
		}
		if overflow {
			continue
		}
		if p.maxBinarySize > 0 && sb.Len()+len(line) > p.maxBinarySize {
			logger.Error("BASE64 data exceeds the configured limit, dropping the value")
			overflow = true
			continue
		}
		sb.WriteString(line)
	}

	if overflow {
		return "", false, nil
	}
	return sb.String(), true, nil
}

// unfoldValue applies RFC 2425 folding: while the next line begins with a
// single space, it continues the current value. Folding is not part of 2.1
// proper, but devices emit it anyway. A lookahead beginning with END:VCARD
// is never consumed; eating the terminator would break the driver's state
// machine.
func (p *Parser) unfoldValue(firstString string) (string, error) {
	var sb *strings.Builder
	for {
		next, err := p.reader.PeekLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if next == "" || next[0] != ' ' ||
			strings.HasPrefix(strings.ToUpper(next), "END:VCARD") {
			break
		}
		if _, err := p.reader.ReadLine(); err != nil && err != io.EOF {
			return "", err
		}
		if sb == nil {
			sb = &strings.Builder{}
			sb.WriteString(firstString)
		}
		sb.WriteString(next[1:])
	}
	if sb == nil {
		return firstString, nil
	}
	return sb.String(), nil
}

// handleMultiplePropertyValue decodes a structured property (ADR, ORG, N)
// into its semicolon-delimited parts. 2.1 does not allow Quoted-Printable
// here, but some devices emit it, so it is honoured first.
func (p *Parser) handleMultiplePropertyValue(rawValue string) error {
	if strings.EqualFold(p.currentEncoding, vcardh.EncodingQP) {
		var err error
		rawValue, err = p.readQuotedPrintable(rawValue)
		if err != nil {
			return err
		}
	}
	p.emitPropertyValues(p.profile.SplitValue(rawValue))
	return nil
}

// handleAgent rejects AGENT payloads that embed a vCard. Bare AGENT lines,
// as seen on some Windows Mobile builds, are ignored without an event.
func (p *Parser) handleAgent(rawValue string) error {
	if !strings.Contains(strings.ToUpper(rawValue), "BEGIN:VCARD") {
		return nil
	}
	return vcardh.NewError(vcardh.AgentNotSupported, "AGENT property is not supported")
}
