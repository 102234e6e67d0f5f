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

package srv

import (
	"errors"
	"fmt"
)

// ErrNoPort is returned when a log config message is requested but the
// server has no diagnostic port to write it to.
var ErrNoPort = errors.New("diagnostic port is not open")

// ErrUnknownOperation is returned by handlers for an action they do not know.
type ErrUnknownOperation struct {
	What string
}

func (e ErrUnknownOperation) Error() string {
	return fmt.Sprintf("Unknown operation: %s", e.What)
}

// ErrPortWrite wraps a failed write of a log config frame.
type ErrPortWrite struct {
	Err error
}

func (e ErrPortWrite) Error() string {
	return fmt.Sprintf("Error while writing to diagnostic port: %s", e.Err)
}

func (e ErrPortWrite) Unwrap() error {
	return e.Err
}
