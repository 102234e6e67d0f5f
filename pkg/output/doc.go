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

// Package output renders decoded results as YAML, JSON or msgpack streams.
package output

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-diag/pkg/msgs"
	"jinr.ru/greenlab/go-diag/pkg/record"
	"jinr.ru/greenlab/go-diag/pkg/session"
)

const TimeFormat = "2006-01-02T15:04:05.000000Z07:00"

// Document keys, in output order.
const (
	KeyTypeID    = "type_id"
	KeyName      = "name"
	KeyTimestamp = "timestamp"
	KeyStatus    = "status"
	KeyFields    = "fields"
	KeyRaw       = "raw"
	KeyWarnings  = "warnings"
	KeyCommand   = "command"
	KeyCRCOK     = "crc_ok"
	KeyPayload   = "payload"
	KeyError     = "error"
)

func hexString(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// fieldsDoc converts a record to an ordered map. With typed set every field
// becomes a [value, type] pair.
func fieldsDoc(rec record.Record, typed bool) yaml.MapSlice {
	doc := make(yaml.MapSlice, 0, len(rec))
	for _, f := range rec {
		v := valueDoc(f.Value, typed)
		if typed {
			v = []interface{}{v, f.Value.Kind.String()}
		}
		doc = append(doc, yaml.MapItem{Key: f.Name, Value: v})
	}
	return doc
}

func valueDoc(v record.Value, typed bool) interface{} {
	switch v.Kind {
	case record.KindDateTime:
		return v.Time().UTC().Format(TimeFormat)
	case record.KindList:
		items := make([]interface{}, len(v.List()))
		for i, sub := range v.List() {
			items[i] = fieldsDoc(sub, typed)
		}
		return items
	}
	return v.Interface()
}

func logDoc(lr *msgs.LogRecord, typed bool) yaml.MapSlice {
	doc := yaml.MapSlice{
		{Key: KeyTypeID, Value: fmt.Sprintf("0x%04X", lr.TypeID)},
		{Key: KeyName, Value: lr.Name},
	}
	if !lr.Timestamp.IsZero() {
		doc = append(doc, yaml.MapItem{Key: KeyTimestamp, Value: lr.Timestamp.UTC().Format(TimeFormat)})
	}
	doc = append(doc,
		yaml.MapItem{Key: KeyStatus, Value: lr.Status.String()},
		yaml.MapItem{Key: KeyFields, Value: fieldsDoc(lr.Fields, typed)},
	)
	if len(lr.Raw) > 0 {
		doc = append(doc, yaml.MapItem{Key: KeyRaw, Value: hexString(lr.Raw)})
	}
	if len(lr.Warnings) > 0 {
		doc = append(doc, yaml.MapItem{Key: KeyWarnings, Value: lr.Warnings})
	}
	return doc
}

func frameDoc(res *session.Result) yaml.MapSlice {
	doc := yaml.MapSlice{
		{Key: KeyCRCOK, Value: res.CRCOK},
	}
	if res.CRCOK {
		doc = append(doc, yaml.MapItem{Key: KeyCommand, Value: res.Command.String()})
	}
	doc = append(doc, yaml.MapItem{Key: KeyPayload, Value: hexString(res.Payload)})
	if res.Err != nil {
		doc = append(doc, yaml.MapItem{Key: KeyError, Value: res.Err.Error()})
	}
	return doc
}

// ResultDoc is the ordered document written for a result: the decoded log
// record for log packets, a frame summary otherwise.
func ResultDoc(res *session.Result, typed bool) yaml.MapSlice {
	if res.Log != nil {
		return logDoc(res.Log, typed)
	}
	return frameDoc(res)
}
