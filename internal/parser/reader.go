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
	"bufio"
	"io"
	"strings"

	"github.com/willabides/vcard/internal/vcardh"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// LineReader reads logical lines from a byte stream with a one-slot
// lookahead. Bytes are decoded through an intermediate charset before line
// splitting; the default is ISO-8859-1, which maps every byte to a rune
// 1:1 so that byte values survive for later per-value charset handling.
type LineReader struct {
	r *bufio.Reader

	// The cached lookahead. pendingValid distinguishes "no lookahead
	// cached" from "lookahead is end-of-stream": when the slot is valid
	// and pendingErr is io.EOF, the stream genuinely ended there.
	pendingLine  string
	pendingErr   error
	pendingValid bool
}

// NewLineReader wraps r, decoding through enc. A nil enc selects the
// ISO-8859-1 intermediate charset.
func NewLineReader(r io.Reader, enc encoding.Encoding) *LineReader {
	if enc == nil {
		enc = charmap.ISO8859_1
	}
	return &LineReader{r: bufio.NewReader(transform.NewReader(r, enc.NewDecoder()))}
}

// ReadLine returns the next line with its end-of-line token (CRLF, LF or CR)
// removed. io.EOF signals end of stream.
func (lr *LineReader) ReadLine() (string, error) {
	if lr.pendingValid {
		line, err := lr.pendingLine, lr.pendingErr
		lr.pendingLine, lr.pendingErr = "", nil
		lr.pendingValid = false
		return line, err
	}
	return lr.readRaw()
}

// PeekLine returns the next line without consuming it; the following
// ReadLine returns the same result and clears the slot.
func (lr *LineReader) PeekLine() (string, error) {
	if !lr.pendingValid {
		lr.pendingLine, lr.pendingErr = lr.readRaw()
		lr.pendingValid = true
	}
	return lr.pendingLine, lr.pendingErr
}

func (lr *LineReader) readRaw() (string, error) {
	var sb strings.Builder
	for {
		ch, _, err := lr.r.ReadRune()
		if err == io.EOF {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", io.EOF
		}
		if err != nil {
			return "", vcardh.WrapIO(err)
		}
		switch ch {
		case '\n':
			return sb.String(), nil
		case '\r':
			next, _, err := lr.r.ReadRune()
			if err == nil && next != '\n' {
				_ = lr.r.UnreadRune()
			} else if err != nil && err != io.EOF {
				return "", vcardh.WrapIO(err)
			}
			return sb.String(), nil
		default:
			sb.WriteRune(ch)
		}
	}
}
