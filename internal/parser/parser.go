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

// Package parser implements the vCard 2.1 streaming state machine: line
// reading with one-line lookahead, line dissection, parameter handling,
// value decoding and the BEGIN/END driver loop pushing events into sinks.
package parser

import (
	"io"
	"strings"
	"sync/atomic"

	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/vcardh"
	"golang.org/x/text/encoding"
)

// Parser is the driver. It owns the input stream for the duration of Parse
// and delivers every event to every registered sink in registration order.
// A Parser is good for one Parse call at a time; it is not safe for
// concurrent use except for Cancel.
type Parser struct {
	profile *Profile
	reader  *LineReader
	sinks   []vcardh.Sink

	// currentEncoding holds the ENCODING of the property being decoded.
	// Reset to 8BIT at the start of every item.
	currentEncoding string

	canceled atomic.Bool
	lenient  bool

	// maxBinarySize bounds BASE64 accumulation. <= 0 means unlimited.
	maxBinarySize int

	// Warn-once suppression for unknown names seen in the wild.
	unknownTypes  map[string]bool
	unknownValues map[string]bool
}

// New returns a driver for the given version profile.
func New(profile *Profile) *Parser {
	return &Parser{profile: profile}
}

// AddSink registers a consumer. Sinks receive events in registration order.
func (p *Parser) AddSink(sink vcardh.Sink) {
	p.sinks = append(p.sinks, sink)
}

// SetLenient makes the top-level loop skip garbage before BEGIN:VCARD and
// end cleanly at end-of-stream instead of failing with a missing-begin
// error.
func (p *Parser) SetLenient(lenient bool) {
	p.lenient = lenient
}

// SetMaxBinarySize bounds BASE64 accumulation per property. When a payload
// exceeds the limit the property's values are reported as nil and the parse
// continues.
func (p *Parser) SetMaxBinarySize(n int) {
	p.maxBinarySize = n
}

// Cancel requests cooperative termination. Safe to call from another
// goroutine; the driver checks it between top-level entries only, so a
// mid-property cancel takes effect at the next entry boundary.
func (p *Parser) Cancel() {
	logger.Info("parser received cancel request")
	p.canceled.Store(true)
}

// Parse consumes the stream to completion, decoding bytes through enc (nil
// selects the ISO-8859-1 intermediate charset). The start event always
// fires; the end event fires when parsing finishes without error.
func (p *Parser) Parse(r io.Reader, enc encoding.Encoding) error {
	p.reader = NewLineReader(r, enc)
	p.unknownTypes = make(map[string]bool)
	p.unknownValues = make(map[string]bool)

	p.emitStart()
	if err := p.parseFile(); err != nil {
		return err
	}
	p.emitEnd()
	return nil
}

// parseFile is the top-level loop: one vCard per iteration until the stream
// runs out or a cancel request arrives.
func (p *Parser) parseFile() error {
	for {
		if p.canceled.Load() {
			logger.Info("cancel request has come, exiting parse operation")
			return nil
		}
		ok, err := p.parseOne()
		if err != nil || !ok {
			return err
		}
	}
}

// parseOne parses a single top-level vCard. Returns false when the stream
// ended before another BEGIN:VCARD.
//
// vcard = "BEGIN" [ws] ":" [ws] "VCARD" [ws] 1*CRLF
//         items *CRLF
//         "END" [ws] ":" [ws] "VCARD"
func (p *Parser) parseOne() (bool, error) {
	p.currentEncoding = vcardh.DefaultEncoding

	ok, err := p.readBeginVCard(p.lenient)
	if err != nil || !ok {
		return false, err
	}
	p.emitStartEntry()
	if err := p.parseItems(); err != nil {
		return false, err
	}
	p.emitEndEntry()
	return true, nil
}

// readBeginVCard scans for the opening BEGIN:VCARD. Mixed case is accepted;
// some exporters emit "begin:vcard". When allowGarbage is set, lines that do
// not match are skipped instead of failing the parse.
func (p *Parser) readBeginVCard(allowGarbage bool) (bool, error) {
	for {
		line, err := p.reader.ReadLine()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, value, found := strings.Cut(line, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), vcardh.PropertyBegin) &&
			strings.EqualFold(strings.TrimSpace(value), "VCARD") {
			return true, nil
		}
		if !allowGarbage {
			return false, vcardh.NewError(vcardh.MissingBegin,
				"expected \"BEGIN:VCARD\" did not come (instead, %q came)", line)
		}
	}
}

// nonEmptyLine skips blank lines and fails at end of stream.
func (p *Parser) nonEmptyLine() (string, error) {
	for {
		line, err := p.reader.ReadLine()
		if err == io.EOF {
			return "", vcardh.NewError(vcardh.UnexpectedEOF, "reached end of buffer")
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) != "" {
			return line, nil
		}
	}
}

// parseItems drives items until END:VCARD, recovering from comment lines.
func (p *Parser) parseItems() error {
	for {
		ended, err := p.parseItem()
		if err != nil {
			if vcardh.KindOf(err) == vcardh.InvalidComment {
				logger.Error("invalid line which looks like some comment was found, ignored")
				continue
			}
			return err
		}
		if ended {
			return nil
		}
	}
}

// parseItem handles one line: nested BEGIN, the closing END, or an ordinary
// property. Returns true when the enclosing vCard ended.
func (p *Parser) parseItem() (bool, error) {
	// Reset for an item.
	p.currentEncoding = vcardh.DefaultEncoding

	line, err := p.nonEmptyLine()
	if err != nil {
		return false, err
	}
	prop, err := p.dissectLine(line)
	if err != nil {
		return false, err
	}

	nameUpper := strings.ToUpper(prop.Name())
	rawValue := prop.RawValue()

	switch nameUpper {
	case vcardh.PropertyBegin:
		if !strings.EqualFold(rawValue, "VCARD") {
			return false, vcardh.NewError(vcardh.UnknownBeginOrEnd, "unknown BEGIN type: %q", rawValue)
		}
		if err := p.parseNested(); err != nil {
			return false, err
		}
	case vcardh.PropertyEnd:
		if !strings.EqualFold(rawValue, "VCARD") {
			return false, vcardh.NewError(vcardh.UnknownBeginOrEnd, "unknown END type: %q", rawValue)
		}
		return true, nil
	default:
		p.emitStartProperty()
		p.sendPropertyMeta(prop)
		if err := p.parseItemInter(nameUpper, rawValue); err != nil {
			return false, err
		}
		p.emitEndProperty()
	}
	return false, nil
}

// parseNested handles a BEGIN:VCARD inside an entry. Depth is bounded only
// by the stack.
func (p *Parser) parseNested() error {
	p.emitStartEntry()
	if err := p.parseItems(); err != nil {
		return err
	}
	p.emitEndEntry()
	return nil
}

// sendPropertyMeta delivers group, name and param events, strictly before
// the values event.
func (p *Parser) sendPropertyMeta(prop *vcardh.RawProperty) {
	for _, group := range prop.Groups() {
		p.emitPropertyGroup(group)
	}
	p.emitPropertyName(prop.Name())
	for _, param := range prop.Params() {
		p.emitPropertyParamType(param.Name)
		p.emitPropertyParamValue(param.Value)
	}
}

// parseItemInter routes the property to its value-parsing path: structured
// (ADR/ORG/N), AGENT, or ordinary.
func (p *Parser) parseItemInter(nameUpper, rawValue string) error {
	switch nameUpper {
	case vcardh.PropertyADR, vcardh.PropertyORG, vcardh.PropertyN:
		return p.handleMultiplePropertyValue(rawValue)
	case vcardh.PropertyAgent:
		return p.handleAgent(rawValue)
	default:
		if !p.validPropertyName(nameUpper) {
			return vcardh.NewError(vcardh.UnknownProperty, "unknown property name: %q", nameUpper)
		}
		if nameUpper == vcardh.PropertyVersion && rawValue != p.profile.VersionString {
			return vcardh.NewError(vcardh.IncompatibleVersion,
				"incompatible version: %s != %s", rawValue, p.profile.VersionString)
		}
		return p.handlePropertyValue(rawValue)
	}
}

// validPropertyName warns once per unknown name and accepts it anyway;
// real-world vCards use names well outside the specification.
func (p *Parser) validPropertyName(name string) bool {
	if !(p.profile.KnownPropertyNames[strings.ToUpper(name)] || strings.HasPrefix(name, "X-")) &&
		!p.unknownTypes[name] {
		p.unknownTypes[name] = true
		logger.Warn("property name unsupported by vCard %s: %s", p.profile.VersionString, name)
	}
	return true
}

func (p *Parser) emitStart() {
	for _, s := range p.sinks {
		s.Start()
	}
}

func (p *Parser) emitEnd() {
	for _, s := range p.sinks {
		s.End()
	}
}

func (p *Parser) emitStartEntry() {
	for _, s := range p.sinks {
		s.StartEntry()
	}
}

func (p *Parser) emitEndEntry() {
	for _, s := range p.sinks {
		s.EndEntry()
	}
}

func (p *Parser) emitStartProperty() {
	for _, s := range p.sinks {
		s.StartProperty()
	}
}

func (p *Parser) emitEndProperty() {
	for _, s := range p.sinks {
		s.EndProperty()
	}
}

func (p *Parser) emitPropertyGroup(group string) {
	for _, s := range p.sinks {
		s.PropertyGroup(group)
	}
}

func (p *Parser) emitPropertyName(name string) {
	for _, s := range p.sinks {
		s.PropertyName(name)
	}
}

func (p *Parser) emitPropertyParamType(paramType string) {
	for _, s := range p.sinks {
		s.PropertyParamType(paramType)
	}
}

func (p *Parser) emitPropertyParamValue(paramValue string) {
	for _, s := range p.sinks {
		s.PropertyParamValue(paramValue)
	}
}

func (p *Parser) emitPropertyValues(values []string) {
	for _, s := range p.sinks {
		s.PropertyValues(values)
	}
}
