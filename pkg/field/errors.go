/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package field

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by every DecodeError caused by a short buffer.
var ErrOutOfRange = errors.New("field out of range")

// ErrSpec is returned by Table.Validate for a length a kind cannot have.
type ErrSpec struct {
	Kind Kind
	Len  int
}

func (e ErrSpec) Error() string {
	return fmt.Sprintf("Invalid length %d for %s field", e.Len, e.Kind)
}

// DecodeError describes the field that could not be decoded.
type DecodeError struct {
	FieldName    string
	Kind         Kind
	Offset       int
	ExpectedSize int
	ActualSize   int
	Cause        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("field %q (%s) at offset %d: expected %d bytes, got %d bytes: %v",
		e.FieldName, e.Kind, e.Offset, e.ExpectedSize, e.ActualSize, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func newRangeError(s Spec, offset, available int) *DecodeError {
	if available < 0 {
		available = 0
	}
	return &DecodeError{
		FieldName:    s.Name,
		Kind:         s.Kind,
		Offset:       offset,
		ExpectedSize: s.Len,
		ActualSize:   available,
		Cause:        ErrOutOfRange,
	}
}
