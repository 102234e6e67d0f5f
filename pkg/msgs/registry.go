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

package msgs

import (
	"fmt"
	"sort"
	"time"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/field"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/record"
)

type Status int

const (
	StatusDecoded Status = iota
	StatusRaw
	StatusUnknownVersion
	StatusTruncated
)

var statusNames = map[Status]string{
	StatusDecoded:        "decoded",
	StatusRaw:            "raw",
	StatusUnknownVersion: "unknown_version",
	StatusTruncated:      "truncated",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// VersionField is the header field the version is read from by default.
const VersionField = "Version"

// LogRecord is the decoded form of one log packet.
type LogRecord struct {
	TypeID    uint16
	Name      string
	Timestamp time.Time
	Status    Status
	Fields    record.Record
	// Raw holds the bytes that were not decoded.
	Raw      []byte
	Warnings []string
}

func (lr *LogRecord) warn(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	lr.Warnings = append(lr.Warnings, msg)
	log.Warning("%s (0x%04X): %s", lr.Name, lr.TypeID, msg)
}

// DecodeFunc decodes the versioned body of a message starting at off and
// appends the fields to rec. It returns the number of bytes consumed, also
// when it fails part way.
type DecodeFunc func(buf []byte, off int, rec *record.Record) (int, error)

// Schema describes how a log type is decoded.
type Schema struct {
	TypeID uint16
	// Header is decoded before the version is looked up. May be empty for
	// versionless types, which are registered as version 0.
	Header field.Table
	// VersionOf extracts the version from the decoded header. If nil the
	// VersionField is used, or 0 when the header has no such field.
	VersionOf func(record.Record) (uint64, bool)
	Versions  map[uint64]DecodeFunc
}

func (s *Schema) version(header record.Record) (uint64, bool) {
	if s.VersionOf != nil {
		return s.VersionOf(header)
	}
	if header.Index(VersionField) < 0 {
		return 0, true
	}
	return header.UInt(VersionField)
}

type key struct {
	typeID  uint16
	version uint64
}

// Registry dispatches log packets to decoders by type id and version.
type Registry struct {
	catalog  *catalog.Catalog
	schemas  map[uint16]*Schema
	decoders map[key]DecodeFunc
}

func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{
		catalog:  cat,
		schemas:  map[uint16]*Schema{},
		decoders: map[key]DecodeFunc{},
	}
}

// Register adds a schema. It panics on a type registered twice or on a
// malformed header table, both being programming errors.
func (r *Registry) Register(s Schema) {
	if _, ok := r.schemas[s.TypeID]; ok {
		panic(fmt.Sprintf("log type 0x%04X registered twice", s.TypeID))
	}
	if err := s.Header.Validate(); err != nil {
		panic(fmt.Sprintf("log type 0x%04X: %s", s.TypeID, err))
	}
	schema := s
	r.schemas[s.TypeID] = &schema
	for version, fn := range s.Versions {
		r.decoders[key{s.TypeID, version}] = fn
	}
}

func (r *Registry) Known(typeID uint16) bool {
	_, ok := r.schemas[typeID]
	return ok
}

// Types returns registered type ids in ascending order.
func (r *Registry) Types() []uint16 {
	ids := make([]uint16, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Versions returns the versions registered for a type in ascending order.
func (r *Registry) Versions(typeID uint16) []uint64 {
	s, ok := r.schemas[typeID]
	if !ok {
		return nil
	}
	versions := make([]uint64, 0, len(s.Versions))
	for v := range s.Versions {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	return versions
}

func (r *Registry) name(typeID uint16) string {
	if r.catalog == nil {
		return fmt.Sprintf("Unknown_0x%04X", typeID)
	}
	return r.catalog.Name(typeID)
}

// Decode decodes the body of a log packet, that is everything after the
// common log header. It never fails: problems are reported through the
// record status and warnings.
func (r *Registry) Decode(typeID uint16, body []byte) *LogRecord {
	lr := &LogRecord{TypeID: typeID, Name: r.name(typeID)}
	schema, ok := r.schemas[typeID]
	if !ok {
		lr.Status = StatusRaw
		lr.Raw = body
		return lr
	}

	n, err := field.Decode(schema.Header, body, 0, &lr.Fields)
	if err != nil {
		lr.Status = StatusTruncated
		lr.Raw = body
		lr.warn("header: %s", err)
		return lr
	}

	version, ok := schema.version(lr.Fields)
	fn, found := r.decoders[key{typeID, version}]
	if !ok || !found {
		lr.Status = StatusUnknownVersion
		lr.Raw = body[n:]
		lr.warn("unknown version %d", version)
		return lr
	}

	m, err := fn(body, n, &lr.Fields)
	n += m
	if err != nil {
		lr.Status = StatusTruncated
		lr.warn("%s", err)
	}
	if n < len(body) {
		lr.Raw = body[n:]
	}
	return lr
}
