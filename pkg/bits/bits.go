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

// Package bits unpacks sub-fields from an integer that has already been read
// out of a message, replacing hand written shift and mask expressions.
package bits

// Field returns width bits of v starting at bit shift (bit 0 is the least
// significant bit).
func Field(v uint64, shift, width uint) uint64 {
	if width == 0 {
		return 0
	}
	if width >= 64 {
		return v >> shift
	}
	return (v >> shift) & (1<<width - 1)
}

// Cursor walks an integer from the least significant bit upwards.
type Cursor struct {
	v   uint64
	pos uint
}

func New(v uint64) *Cursor {
	return &Cursor{v: v}
}

// Take returns the next n bits and advances the cursor.
func (c *Cursor) Take(n uint) uint64 {
	if c.pos >= 64 {
		return 0
	}
	r := Field(c.v, c.pos, n)
	c.pos += n
	return r
}

// Skip advances the cursor by n bits without reading them.
func (c *Cursor) Skip(n uint) {
	c.pos += n
}

// Bool takes a single bit.
func (c *Cursor) Bool() bool {
	return c.Take(1) == 1
}

// Pos returns the number of bits consumed so far.
func (c *Cursor) Pos() uint {
	return c.pos
}
