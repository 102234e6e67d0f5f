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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/layers"
	"jinr.ru/greenlab/go-diag/pkg/msgs"
	"jinr.ru/greenlab/go-diag/pkg/record"
	"jinr.ru/greenlab/go-diag/pkg/session"
)

func logResult() *session.Result {
	var cells []record.Record
	for _, pci := range []uint64{16, 17} {
		var cell record.Record
		cell.Append("Physical Cell ID", record.UInt(pci))
		cell.Append("RSRP(dBm)", record.Float(-55.5))
		cells = append(cells, cell)
	}
	var fields record.Record
	fields.Append("Version", record.UInt(4))
	fields.Append("Zeta", record.Str("last in alphabet, first here"))
	fields.Append("Alpha", record.Int(-3))
	fields.Append("Neighbor Cells", record.List(cells))
	return &session.Result{
		CRCOK:   true,
		Command: layers.DiagCmdLog,
		Log: &msgs.LogRecord{
			TypeID:    0xB179,
			Name:      "LTE_PHY_Connected_Mode_Intra_Freq_Meas",
			Timestamp: time.Date(2020, 1, 2, 3, 4, 5, 6000, time.UTC),
			Status:    msgs.StatusDecoded,
			Fields:    fields,
			Raw:       []byte{0xAB},
		},
	}
}

func inOrder(t *testing.T, out string, keys ...string) {
	t.Helper()
	last := -1
	for _, k := range keys {
		i := strings.Index(out, k)
		if i < 0 || i < last {
			t.Fatalf("%q missing or out of order in:\n%s", k, out)
		}
		last = i
	}
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatYAML, false)
	if err := w.WriteResult(logResult()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("no document separator:\n%s", out)
	}
	inOrder(t, out, "type_id:", "0xB179", "timestamp:", "2020-01-02T03:04:05.000006Z",
		"status: decoded", "Version: 4", "Zeta:", "Alpha: -3", "Physical Cell ID: 16", "Physical Cell ID: 17", "raw:", "0xab")
}

func TestJSONKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatJSON, false)
	res := logResult()
	if err := w.WriteResult(res); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteResult(&session.Result{Payload: []byte{0x1D, 0x00}, CRCOK: true, Command: layers.DiagCmdTimestamp}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatal(err)
	}
	inOrder(t, lines[0], `"Version":4`, `"Zeta"`, `"Alpha":-3`, `"Neighbor Cells":[{"Physical Cell ID":16`)
	if !strings.Contains(lines[1], `"command":"Timestamp"`) || !strings.Contains(lines[1], `"payload":"0x1d00"`) {
		t.Fatalf("frame line = %s", lines[1])
	}
}

func TestTypedFields(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, FormatJSON, true).WriteResult(logResult()); err != nil {
		t.Fatal(err)
	}
	inOrder(t, buf.String(), `"Version":[4,"uint"]`, `"Alpha":[-3,"int"]`, `"RSRP(dBm)":[-55.5,"float"]`)
}

func TestMsgpack(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, FormatMsgpack, false)
	if err := w.WriteResult(logResult()); err != nil {
		t.Fatal(err)
	}
	dec := msgpack.NewDecoder(bytes.NewReader(buf.Bytes()))
	n, err := dec.DecodeMapLen()
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for i := 0; i < n; i++ {
		key, err := dec.DecodeString()
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, key)
		if key != KeyFields {
			if err := dec.Skip(); err != nil {
				t.Fatal(err)
			}
			continue
		}
		m, err := dec.DecodeMapLen()
		if err != nil || m != 4 {
			t.Fatalf("fields len = %d, %v", m, err)
		}
		first, _ := dec.DecodeString()
		if first != "Version" {
			t.Fatalf("first field = %s", first)
		}
		for j := 0; j < 2*m-1; j++ {
			if err := dec.Skip(); err != nil {
				t.Fatal(err)
			}
		}
	}
	want := []string{KeyTypeID, KeyName, KeyTimestamp, KeyStatus, KeyFields, KeyRaw}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v", keys)
	}
}

func TestWriteValue(t *testing.T) {
	var buf bytes.Buffer
	entries := catalog.Default().Public()[:1]
	if err := NewWriter(&buf, FormatYAML, false).WriteValue(entries); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Name: CDMA_Paging_Channel_Message") {
		t.Fatalf("yaml = %s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("msgpack"); err != nil || f != FormatMsgpack {
		t.Fatalf("format = %s, %v", f, err)
	}
	var unknown ErrUnknownFormat
	if _, err := ParseFormat("xml"); !errors.As(err, &unknown) {
		t.Fatalf("err = %v", err)
	}
}
