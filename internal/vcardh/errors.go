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

package vcardh

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	// NoError is the zero value and never carried by a returned error.
	NoError ErrorKind = iota

	IOError             // the underlying stream failed
	UnexpectedEOF       // stream ended inside a continuation or before END:VCARD
	MissingBegin        // non-empty input that does not start with BEGIN:VCARD
	UnknownBeginOrEnd   // BEGIN: or END: with a value other than VCARD
	UnknownEncoding     // ENCODING parameter outside the accepted set
	InvalidLanguage     // LANGUAGE parameter not of the a-b letters form
	UnknownParam        // parameter name neither recognised nor X-
	UnknownProperty     // property name neither recognised nor X-
	IncompatibleVersion // VERSION value does not match the parser's version
	AgentNotSupported   // AGENT payload carries a nested vCard
	InvalidLine         // line ended without the terminating colon
	InvalidComment      // line starts with '#'; recovered by the driver
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "no error"
	case IOError:
		return "io error"
	case UnexpectedEOF:
		return "unexpected end of stream"
	case MissingBegin:
		return "missing BEGIN:VCARD"
	case UnknownBeginOrEnd:
		return "unknown BEGIN or END"
	case UnknownEncoding:
		return "unknown encoding"
	case InvalidLanguage:
		return "invalid language"
	case UnknownParam:
		return "unknown parameter"
	case UnknownProperty:
		return "unknown property"
	case IncompatibleVersion:
		return "incompatible version"
	case AgentNotSupported:
		return "AGENT not supported"
	case InvalidLine:
		return "invalid line"
	case InvalidComment:
		return "invalid comment line"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is the single error type surfaced by the parser. Kind tells callers
// which failure from the taxonomy occurred; Cause holds a wrapped stream
// error for IOError.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "vcard: " + e.Kind.String()
	}
	return "vcard: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError builds an Error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapIO wraps a stream error, preserving it for errors.Is/As.
func WrapIO(err error) *Error {
	return &Error{Kind: IOError, Message: "read: " + err.Error(), Cause: err}
}

// KindOf extracts the ErrorKind from err, or NoError when err is nil or not
// an Error produced by this module.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return NoError
}
