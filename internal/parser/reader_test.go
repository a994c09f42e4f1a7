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
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestLineReaderLineEndings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lines []string
	}{
		{name: "crlf", input: "a\r\nb\r\n", lines: []string{"a", "b"}},
		{name: "lf", input: "a\nb\n", lines: []string{"a", "b"}},
		{name: "cr", input: "a\rb\r", lines: []string{"a", "b"}},
		{name: "mixed", input: "a\r\nb\nc\rd", lines: []string{"a", "b", "c", "d"}},
		{name: "no trailing newline", input: "a\r\nb", lines: []string{"a", "b"}},
		{name: "empty lines", input: "a\r\n\r\nb\r\n", lines: []string{"a", "", "b"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lr := NewLineReader(strings.NewReader(test.input), nil)
			for _, want := range test.lines {
				line, err := lr.ReadLine()
				require.NoError(t, err)
				require.Equal(t, want, line)
			}
			_, err := lr.ReadLine()
			require.Equal(t, io.EOF, err)
		})
	}
}

func TestLineReaderPeek(t *testing.T) {
	lr := NewLineReader(strings.NewReader("first\r\nsecond\r\n"), nil)

	peeked, err := lr.PeekLine()
	require.NoError(t, err)
	require.Equal(t, "first", peeked)

	// Peeking again returns the cached slot, not the next line.
	peeked, err = lr.PeekLine()
	require.NoError(t, err)
	require.Equal(t, "first", peeked)

	line, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "first", line)

	line, err = lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "second", line)
}

func TestLineReaderPeekAtEOF(t *testing.T) {
	lr := NewLineReader(strings.NewReader("only\r\n"), nil)

	_, err := lr.ReadLine()
	require.NoError(t, err)

	// The end-of-stream lookahead is cached, and the following read
	// reports the same result.
	_, err = lr.PeekLine()
	require.Equal(t, io.EOF, err)
	_, err = lr.ReadLine()
	require.Equal(t, io.EOF, err)
	_, err = lr.ReadLine()
	require.Equal(t, io.EOF, err)
}

func TestLineReaderIntermediateCharset(t *testing.T) {
	// 0xE9 is é in ISO-8859-1; every byte value must survive the default
	// intermediate charset.
	lr := NewLineReader(strings.NewReader("caf\xe9\r\n"), nil)
	line, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "café", line)
}

func TestLineReaderExplicitCharset(t *testing.T) {
	// 0x96 is – in Windows-1252.
	lr := NewLineReader(strings.NewReader("a\x96b\r\n"), charmap.Windows1252)
	line, err := lr.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "a–b", line)
}
