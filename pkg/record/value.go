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

package record

import (
	"fmt"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value. Its String form is the type hint
// carried along with every decoded field.
type Kind uint8

const (
	KindUInt Kind = iota
	KindInt
	KindFloat
	KindStr
	KindDateTime
	KindList
)

var kindNames = [...]string{
	KindUInt:     "uint",
	KindInt:      "int",
	KindFloat:    "float",
	KindStr:      "string",
	KindDateTime: "datetime",
	KindList:     "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union. Only the member matching Kind is meaningful.
type Value struct {
	Kind Kind
	u    uint64
	i    int64
	f    float64
	s    string
	t    time.Time
	list []Record
}

func UInt(v uint64) Value        { return Value{Kind: KindUInt, u: v} }
func Int(v int64) Value          { return Value{Kind: KindInt, i: v} }
func Float(v float64) Value      { return Value{Kind: KindFloat, f: v} }
func Str(v string) Value         { return Value{Kind: KindStr, s: v} }
func DateTime(v time.Time) Value { return Value{Kind: KindDateTime, t: v} }
func List(v []Record) Value      { return Value{Kind: KindList, list: v} }

// UInt returns the unsigned member. Int values are converted, anything else is 0.
func (v Value) UInt() uint64 {
	switch v.Kind {
	case KindUInt:
		return v.u
	case KindInt:
		return uint64(v.i)
	}
	return 0
}

// Int returns the signed member. UInt values are converted, anything else is 0.
func (v Value) Int() int64 {
	switch v.Kind {
	case KindInt:
		return v.i
	case KindUInt:
		return int64(v.u)
	}
	return 0
}

// Float returns the float member. Integer values are converted.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindFloat:
		return v.f
	case KindUInt:
		return float64(v.u)
	case KindInt:
		return float64(v.i)
	}
	return 0
}

func (v Value) Str() string     { return v.s }
func (v Value) Time() time.Time { return v.t }
func (v Value) List() []Record  { return v.list }

// Interface returns the value as a plain Go type, lists become []Record.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindUInt:
		return v.u
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindStr:
		return v.s
	case KindDateTime:
		return v.t
	case KindList:
		return v.list
	}
	return nil
}

func (v Value) String() string {
	switch v.Kind {
	case KindUInt:
		return strconv.FormatUint(v.u, 10)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindStr:
		return v.s
	case KindDateTime:
		return v.t.Format("2006-01-02 15:04:05.000000")
	case KindList:
		return fmt.Sprintf("[%d records]", len(v.list))
	}
	return ""
}

// Equal reports whether two values hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindUInt:
		return v.u == o.u
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindStr:
		return v.s == o.s
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}
