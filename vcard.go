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

// Package vcard implements a streaming push parser for vCard 2.1 text
// streams. The parser tokenises the stream into logical lines, resolves
// continuation and folding, dissects each line into groups, name,
// parameters and value, decodes the value per its ENCODING parameter, and
// drives registered interpreters through the BEGIN/ENTRY/PROPERTY/END
// event hierarchy, including nested entries.
//
// The grammar is ambiguous in practice; the parser carries the documented
// real-world tolerances: mixed-case BEGIN/VCARD, double-quoted parameter
// values, unknown TYPE and VALUE values, the unnamed TYPE shorthand,
// BASE64 payloads missing the trailing blank line, folded long lines and
// Quoted-Printable transport padding.
package vcard

import (
	"errors"
	"io"
	"strings"

	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/parser"
	"golang.org/x/text/encoding"
)

// Parser parses vCard 2.1 streams and pushes events into registered
// interpreters. A Parser owns its input stream for the duration of Parse;
// it is good for one Parse at a time. Cancel may be called from another
// goroutine.
type Parser struct {
	impl *parser.Parser
	enc  encoding.Encoding
}

// NewParser returns a vCard 2.1 parser. Input bytes are decoded through the
// ISO-8859-1 intermediate charset by default, which keeps every byte value
// intact for later per-value CHARSET handling.
func NewParser() *Parser {
	return &Parser{impl: parser.New(parser.V21())}
}

// SetIntermediateEncoding overrides the intermediate charset used to turn
// stream bytes into text before line splitting.
func (p *Parser) SetIntermediateEncoding(enc encoding.Encoding) {
	p.enc = enc
}

// SetLenient makes Parse skip leading garbage instead of failing when the
// stream does not open with BEGIN:VCARD, and end cleanly at end-of-stream.
func (p *Parser) SetLenient(lenient bool) {
	p.impl.SetLenient(lenient)
}

// SetMaxBinarySize bounds BASE64 accumulation per property. A property
// whose payload exceeds the limit reports nil values and the parse
// continues. Zero or negative means unlimited.
func (p *Parser) SetMaxBinarySize(n int) {
	p.impl.SetMaxBinarySize(n)
}

// AddInterpreter registers a coarse consumer. Multiple interpreters are
// permitted; each receives every event in registration order.
func (p *Parser) AddInterpreter(interpreter Interpreter) {
	p.impl.AddSink(&propertyBuilder{interpreter: interpreter})
}

// AddRawInterpreter registers a fine-grained consumer receiving the
// low-level event stream directly.
func (p *Parser) AddRawInterpreter(interpreter RawInterpreter) {
	p.impl.AddSink(interpreter)
}

// Parse consumes the stream to completion. Any failure from the error
// taxonomy terminates the parse; there is no partial-success return.
// Interpreter panics and errors are not swallowed.
func (p *Parser) Parse(r io.Reader) error {
	if r == nil {
		return errors.New("vcard: input reader must not be nil")
	}
	return p.impl.Parse(r, p.enc)
}

// ParseString parses an in-memory vCard.
func (p *Parser) ParseString(s string) error {
	return p.Parse(strings.NewReader(s))
}

// Cancel requests cooperative termination. Safe to invoke from another
// goroutine. The parser consults the flag at top-level entry boundaries
// only; a mid-property cancel is not interrupted, and the vCard-ended event
// still fires if the vCard-started event fired.
func (p *Parser) Cancel() {
	p.impl.Cancel()
}

// SetLogOutput redirects the parser's diagnostic warnings. They go to
// os.Stderr by default.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
