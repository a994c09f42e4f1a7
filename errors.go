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

package vcard

import (
	"github.com/willabides/vcard/internal/vcardh"
)

// Error is the typed error surfaced by Parse. Inspect Kind (or use KindOf)
// to classify the failure.
type Error = vcardh.Error

// ErrorKind classifies parse failures.
type ErrorKind = vcardh.ErrorKind

// The error taxonomy. Only InvalidComment is recovered internally (logged
// and skipped); every other kind terminates the parse.
const (
	IOError             = vcardh.IOError
	UnexpectedEOF       = vcardh.UnexpectedEOF
	MissingBegin        = vcardh.MissingBegin
	UnknownBeginOrEnd   = vcardh.UnknownBeginOrEnd
	UnknownEncoding     = vcardh.UnknownEncoding
	InvalidLanguage     = vcardh.InvalidLanguage
	UnknownParam        = vcardh.UnknownParam
	UnknownProperty     = vcardh.UnknownProperty
	IncompatibleVersion = vcardh.IncompatibleVersion
	AgentNotSupported   = vcardh.AgentNotSupported
	InvalidLine         = vcardh.InvalidLine
	InvalidComment      = vcardh.InvalidComment
)

// KindOf extracts the ErrorKind from err, unwrapping as needed. Returns the
// zero kind for nil or foreign errors.
func KindOf(err error) ErrorKind {
	return vcardh.KindOf(err)
}
