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
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/willabides/vcard/internal/logger"
	"github.com/willabides/vcard/internal/vcardh"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// recordingSink captures the event stream as a flat trace so tests can
// compare whole sequences.
type recordingSink struct {
	events []string
}

func (r *recordingSink) add(event string)         { r.events = append(r.events, event) }
func (r *recordingSink) Start()                   { r.add("start") }
func (r *recordingSink) End()                     { r.add("end") }
func (r *recordingSink) StartEntry()              { r.add("entry-start") }
func (r *recordingSink) EndEntry()                { r.add("entry-end") }
func (r *recordingSink) StartProperty()           { r.add("prop-start") }
func (r *recordingSink) EndProperty()             { r.add("prop-end") }
func (r *recordingSink) PropertyGroup(g string)   { r.add("group:" + g) }
func (r *recordingSink) PropertyName(n string)    { r.add("name:" + n) }
func (r *recordingSink) PropertyParamType(t string) { r.add("param-type:" + t) }
func (r *recordingSink) PropertyParamValue(v string) { r.add("param-value:" + v) }

func (r *recordingSink) PropertyValues(values []string) {
	if values == nil {
		r.add("values:<nil>")
		return
	}
	r.add("values:[" + strings.Join(values, "|") + "]")
}

func parseTrace(t *testing.T, input string) ([]string, error) {
	t.Helper()
	p := New(V21())
	sink := &recordingSink{}
	p.AddSink(sink)
	err := p.Parse(strings.NewReader(input), nil)
	return sink.events, err
}

func TestParseSimple(t *testing.T) {
	trace, err := parseTrace(t, "BEGIN:VCARD\r\nVERSION:2.1\r\nN:Doe;John;;;\r\nEND:VCARD\r\n")
	require.NoError(t, err)
	require.Equal(t, []string{
		"start",
		"entry-start",
		"prop-start", "name:VERSION", "values:[2.1]", "prop-end",
		"prop-start", "name:N", "values:[Doe|John|||]", "prop-end",
		"entry-end",
		"end",
	}, trace)
}

func TestParseMixedCaseBeginEnd(t *testing.T) {
	trace, err := parseTrace(t, "begin:vcard\r\nN:A\r\nend:vcard\r\n")
	require.NoError(t, err)
	require.Equal(t, []string{
		"start",
		"entry-start",
		"prop-start", "name:N", "values:[A]", "prop-end",
		"entry-end",
		"end",
	}, trace)
}

func TestParseNested(t *testing.T) {
	input := "BEGIN:VCARD\r\nN:test1\r\nBEGIN:VCARD\r\nN:test2\r\nEND:VCARD\r\nTEL:1\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Equal(t, []string{
		"start",
		"entry-start",
		"prop-start", "name:N", "values:[test1]", "prop-end",
		"entry-start",
		"prop-start", "name:N", "values:[test2]", "prop-end",
		"entry-end",
		"prop-start", "name:TEL", "values:[1]", "prop-end",
		"entry-end",
		"end",
	}, trace)
}

func TestParseQuotedPrintableContinuation(t *testing.T) {
	input := "BEGIN:VCARD\r\n" +
		"NOTE;ENCODING=QUOTED-PRINTABLE:Now's the time =\r\n" +
		"for all folk\r\n" +
		"END:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[Now's the time =\r\nfor all folk]")
}

func TestParseQuotedPrintableMultipleContinuations(t *testing.T) {
	input := "BEGIN:VCARD\r\n" +
		"NOTE;ENCODING=QUOTED-PRINTABLE:Now's the time =\r\n" +
		"for all folk to come=\r\n" +
		"to the aid of their country.\r\n" +
		"END:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace,
		"values:[Now's the time =\r\nfor all folk to come=\r\nto the aid of their country.]")
}

func TestParseQuotedPrintableTransportPadding(t *testing.T) {
	// RFC 2045 allows whitespace between the '=' soft break and the CRLF.
	input := "BEGIN:VCARD\r\n" +
		"NOTE;ENCODING=QUOTED-PRINTABLE:first= \t\r\n" +
		"second\r\n" +
		"END:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[first=\r\nsecond]")
}

func TestParseQuotedPrintableEOF(t *testing.T) {
	input := "BEGIN:VCARD\r\nNOTE;ENCODING=QUOTED-PRINTABLE:oops=\r\n"
	_, err := parseTrace(t, input)
	require.Error(t, err)
	require.Equal(t, vcardh.UnexpectedEOF, vcardh.KindOf(err))
}

func TestParseFoldedValue(t *testing.T) {
	// Only the first leading space marks the fold; anything after it is
	// value content, so the second space here survives.
	input := "BEGIN:VCARD\r\nEMAIL:\"Omega\"\r\n  <omega@example.com>\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[\"Omega\" <omega@example.com>]")
}

func TestParseFoldedValueSingleSpaceConsumed(t *testing.T) {
	input := "BEGIN:VCARD\r\nEMAIL:\"Omega\"\r\n <omega@example.com>\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[\"Omega\"<omega@example.com>]")
}

func TestParseFoldingStopsAtEndVCard(t *testing.T) {
	// The terminator must not be eaten even when a folded line would
	// otherwise continue.
	input := "BEGIN:VCARD\r\nNOTE:abc\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[abc]")
	require.Equal(t, "entry-end", trace[len(trace)-2])
}

func TestParseBase64BlankLineTerminated(t *testing.T) {
	input := "BEGIN:VCARD\r\n" +
		"PHOTO;ENCODING=BASE64:QUJD\r\n" +
		" REVG\r\n" +
		"\r\n" +
		"END:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[QUJD REVG]")
}

func TestParseBase64NextPropertyTerminated(t *testing.T) {
	// The trailing blank line is missing; the known-name lookahead stops
	// accumulation without consuming TEL.
	input := "BEGIN:VCARD\r\n" +
		"PHOTO;ENCODING=BASE64:QUJD\r\n" +
		"REVG\r\n" +
		"TEL:123\r\n" +
		"\r\n" +
		"END:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[QUJDREVG]")
	require.Contains(t, trace, "name:TEL")
	require.Contains(t, trace, "values:[123]")
}

func TestParseBase64EOF(t *testing.T) {
	input := "BEGIN:VCARD\r\nPHOTO;ENCODING=BASE64:QUJD\r\n"
	_, err := parseTrace(t, input)
	require.Error(t, err)
	require.Equal(t, vcardh.UnexpectedEOF, vcardh.KindOf(err))
}

func TestParseBase64OverLimit(t *testing.T) {
	p := New(V21())
	p.SetMaxBinarySize(8)
	sink := &recordingSink{}
	p.AddSink(sink)
	input := "BEGIN:VCARD\r\n" +
		"PHOTO;ENCODING=BASE64:QUJDREVG\r\n" +
		"QUJDREVG\r\n" +
		"\r\n" +
		"TEL:1\r\n" +
		"END:VCARD\r\n"
	require.NoError(t, p.Parse(strings.NewReader(input), nil))
	require.Contains(t, sink.events, "values:<nil>")
	// the parse continues past the dropped property
	require.Contains(t, sink.events, "values:[1]")
}

func TestParseAgentEmptyBodyIgnored(t *testing.T) {
	trace, err := parseTrace(t, "BEGIN:VCARD\r\nAGENT:\r\nEND:VCARD\r\n")
	require.NoError(t, err)
	// AGENT produces property events but no values event
	require.Contains(t, trace, "name:AGENT")
	for _, event := range trace {
		require.False(t, strings.HasPrefix(event, "values:"), "unexpected %s", event)
	}
}

func TestParseAgentNestedVCardRejected(t *testing.T) {
	_, err := parseTrace(t, "BEGIN:VCARD\r\nAGENT:BEGIN:VCARD\r\nEND:VCARD\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.AgentNotSupported, vcardh.KindOf(err))
}

func TestParseMissingBegin(t *testing.T) {
	_, err := parseTrace(t, "N:Doe\r\nEND:VCARD\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.MissingBegin, vcardh.KindOf(err))
}

func TestParseLenientSkipsGarbage(t *testing.T) {
	p := New(V21())
	p.SetLenient(true)
	sink := &recordingSink{}
	p.AddSink(sink)
	input := "garbage\r\nBEGIN:VCARD\r\nN:A\r\nEND:VCARD\r\n"
	require.NoError(t, p.Parse(strings.NewReader(input), nil))
	require.Contains(t, sink.events, "values:[A]")
}

func TestParseLenientGarbageOnly(t *testing.T) {
	p := New(V21())
	p.SetLenient(true)
	sink := &recordingSink{}
	p.AddSink(sink)
	require.NoError(t, p.Parse(strings.NewReader("garbage\r\nmore garbage\r\n"), nil))
	require.Equal(t, []string{"start", "end"}, sink.events)
}

func TestParseUnknownBeginType(t *testing.T) {
	_, err := parseTrace(t, "BEGIN:VCARD\r\nBEGIN:VCALENDAR\r\nEND:VCARD\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.UnknownBeginOrEnd, vcardh.KindOf(err))
}

func TestParseUnknownEndType(t *testing.T) {
	_, err := parseTrace(t, "BEGIN:VCARD\r\nEND:VCALENDAR\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.UnknownBeginOrEnd, vcardh.KindOf(err))
}

func TestParseIncompatibleVersion(t *testing.T) {
	_, err := parseTrace(t, "BEGIN:VCARD\r\nVERSION:3.0\r\nEND:VCARD\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.IncompatibleVersion, vcardh.KindOf(err))
}

func TestParseEOFBeforeEnd(t *testing.T) {
	_, err := parseTrace(t, "BEGIN:VCARD\r\nN:Doe\r\n")
	require.Error(t, err)
	require.Equal(t, vcardh.UnexpectedEOF, vcardh.KindOf(err))
}

func TestParseCommentLineRecovered(t *testing.T) {
	input := "BEGIN:VCARD\r\n#comment\r\nN:A\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Contains(t, trace, "values:[A]")
}

func TestParseEmptyInput(t *testing.T) {
	trace, err := parseTrace(t, "")
	require.NoError(t, err)
	require.Equal(t, []string{"start", "end"}, trace)
}

func TestParseMultipleEntries(t *testing.T) {
	input := "BEGIN:VCARD\r\nN:A\r\nEND:VCARD\r\n\r\nBEGIN:VCARD\r\nN:B\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Equal(t, 2, countEvents(trace, "entry-start"))
	require.Equal(t, 2, countEvents(trace, "entry-end"))
	require.Contains(t, trace, "values:[A]")
	require.Contains(t, trace, "values:[B]")
}

func TestParseCancelBeforeParse(t *testing.T) {
	p := New(V21())
	sink := &recordingSink{}
	p.AddSink(sink)
	p.Cancel()
	input := "BEGIN:VCARD\r\nN:A\r\nEND:VCARD\r\n"
	require.NoError(t, p.Parse(strings.NewReader(input), nil))
	// start/end always pair up; no entry events after a cancel
	require.Equal(t, []string{"start", "end"}, sink.events)
}

func TestParseIdempotent(t *testing.T) {
	input := "BEGIN:VCARD\r\nVERSION:2.1\r\na.b.TEL;HOME;VOICE:123\r\nEND:VCARD\r\n"
	first, err := parseTrace(t, input)
	require.NoError(t, err)
	second, err := parseTrace(t, input)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestParseFanoutOrder(t *testing.T) {
	p := New(V21())
	first := &recordingSink{}
	second := &recordingSink{}
	p.AddSink(first)
	p.AddSink(second)
	input := "BEGIN:VCARD\r\nN:A\r\nEND:VCARD\r\n"
	require.NoError(t, p.Parse(strings.NewReader(input), nil))
	require.Equal(t, first.events, second.events)
	require.NotEmpty(t, first.events)
}

func TestParseEventBalance(t *testing.T) {
	input := "BEGIN:VCARD\r\nN:a\r\nBEGIN:VCARD\r\nBEGIN:VCARD\r\nEND:VCARD\r\nEND:VCARD\r\nEND:VCARD\r\n"
	trace, err := parseTrace(t, input)
	require.NoError(t, err)
	depth := 0
	for _, event := range trace {
		switch event {
		case "entry-start":
			depth++
		case "entry-end":
			depth--
		}
		require.GreaterOrEqual(t, depth, 0)
	}
	require.Zero(t, depth)
	require.Equal(t, "start", trace[0])
	require.Equal(t, "end", trace[len(trace)-1])
}

func countEvents(trace []string, event string) int {
	n := 0
	for _, e := range trace {
		if e == event {
			n++
		}
	}
	return n
}
