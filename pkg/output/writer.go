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

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v2"
	sigsyaml "sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-diag/pkg/session"
)

type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

var Formats = []Format{FormatYAML, FormatJSON, FormatMsgpack}

type ErrUnknownFormat struct {
	Format string
}

func (e ErrUnknownFormat) Error() string {
	return fmt.Sprintf("Unknown output format %q. Must be one of: yaml, json, msgpack", e.Format)
}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", ErrUnknownFormat{Format: s}
}

// Writer writes a stream of documents: YAML documents separated by "---",
// one JSON object per line, or consecutive msgpack maps.
type Writer struct {
	w      io.Writer
	format Format
	typed  bool
	enc    *msgpack.Encoder
}

// NewWriter returns a writer for format. With typed set every field is
// written together with its value kind.
func NewWriter(w io.Writer, format Format, typed bool) *Writer {
	ow := &Writer{w: w, format: format, typed: typed}
	if format == FormatMsgpack {
		ow.enc = msgpack.NewEncoder(w)
	}
	return ow
}

func (w *Writer) WriteResult(res *session.Result) error {
	doc := ResultDoc(res, w.typed)
	if w.format == FormatMsgpack && !w.typed && res.Log != nil {
		// records encode themselves, with native msgpack timestamps
		for i := range doc {
			if doc[i].Key == KeyFields {
				doc[i].Value = res.Log.Fields
			}
		}
	}
	return w.writeDoc(doc)
}

func (w *Writer) writeDoc(doc yaml.MapSlice) error {
	switch w.format {
	case FormatYAML:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		return w.write(append([]byte("---\n"), data...))
	case FormatJSON:
		var buf bytes.Buffer
		if err := writeJSON(&buf, doc); err != nil {
			return err
		}
		buf.WriteByte('\n')
		return w.write(buf.Bytes())
	case FormatMsgpack:
		return encodeMsgpack(w.enc, doc)
	}
	return ErrUnknownFormat{Format: string(w.format)}
}

// WriteValue writes a plain Go value such as a catalog listing, honouring
// its json tags.
func (w *Writer) WriteValue(v interface{}) error {
	switch w.format {
	case FormatYAML:
		data, err := sigsyaml.Marshal(v)
		if err != nil {
			return err
		}
		return w.write(data)
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		return w.write(append(data, '\n'))
	case FormatMsgpack:
		return w.enc.Encode(v)
	}
	return ErrUnknownFormat{Format: string(w.format)}
}

func (w *Writer) write(data []byte) error {
	_, err := w.w.Write(data)
	return err
}

// writeJSON keeps the key order of ordered maps, which encoding/json would
// lose.
func writeJSON(buf *bytes.Buffer, v interface{}) error {
	switch v := v.(type) {
	case yaml.MapSlice:
		buf.WriteByte('{')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(fmt.Sprint(item.Key))
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, item.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func encodeMsgpack(enc *msgpack.Encoder, v interface{}) error {
	switch v := v.(type) {
	case yaml.MapSlice:
		if err := enc.EncodeMapLen(len(v)); err != nil {
			return err
		}
		for _, item := range v {
			if err := enc.EncodeString(fmt.Sprint(item.Key)); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, item.Value); err != nil {
				return err
			}
		}
		return nil
	case []interface{}:
		if err := enc.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for _, item := range v {
			if err := encodeMsgpack(enc, item); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(v)
}
