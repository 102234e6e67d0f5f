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

package control

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/srv/control/ifc"
)

func newTestAPI(t *testing.T) (*httptest.Server, *ControlServer, *fakePort) {
	t.Helper()
	port := &fakePort{}
	s := newTestServer(t, testConfig(t), port)
	ts := httptest.NewServer(s.api.Handler())
	t.Cleanup(ts.Close)
	return ts, s, port
}

func post(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, ContentType, bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestAPICatalog(t *testing.T) {
	ts, _, _ := newTestAPI(t)

	resp, err := http.Get(ts.URL + "/api/catalog")
	if err != nil {
		t.Fatal(err)
	}
	var public []catalog.Entry
	decode(t, resp, &public)
	if len(public) != len(catalog.Default().Public()) {
		t.Fatalf("public entries = %d", len(public))
	}
	for _, e := range public {
		if !e.Public {
			t.Fatalf("internal entry listed: %+v", e)
		}
	}

	resp, err = http.Get(ts.URL + "/api/catalog?all=true")
	if err != nil {
		t.Fatal(err)
	}
	var all []catalog.Entry
	decode(t, resp, &all)
	if len(all) != len(catalog.Default().Entries()) || len(all) <= len(public) {
		t.Fatalf("all entries = %d", len(all))
	}
}

func TestAPIEnableShowDisable(t *testing.T) {
	ts, _, port := newTestAPI(t)

	var enabled []Mask
	decode(t, post(t, ts.URL+"/api/logs/enable", LogsRequest{Types: []string{"LTE_NAS_EMM_State", "0xB0C2"}}), &enabled)
	want := []Mask{{EquipID: int32(catalog.EquipLTE), ItemCount: 0xEF, Types: []string{"LTE_RRC_Serv_Cell_Info", "LTE_NAS_EMM_State"}}}
	if !reflect.DeepEqual(enabled, want) {
		t.Fatalf("enabled = %+v", enabled)
	}
	if len(port.written()) == 0 {
		t.Fatal("nothing written to port")
	}

	resp, err := http.Get(ts.URL + "/api/logs")
	if err != nil {
		t.Fatal(err)
	}
	var shown []Mask
	decode(t, resp, &shown)
	if !reflect.DeepEqual(shown, want) {
		t.Fatalf("shown = %+v", shown)
	}

	var disabled []Mask
	decode(t, post(t, ts.URL+"/api/logs/disable", LogsRequest{}), &disabled)
	if len(disabled) != 0 {
		t.Fatalf("disabled = %+v", disabled)
	}
	resp, err = http.Get(ts.URL + "/api/logs")
	if err != nil {
		t.Fatal(err)
	}
	shown = nil
	decode(t, resp, &shown)
	if len(shown) != 0 {
		t.Fatalf("shown after disable = %+v", shown)
	}
}

func TestAPIRejectsBadRequests(t *testing.T) {
	ts, _, port := newTestAPI(t)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"unknown type", "/api/logs/enable", LogsRequest{Types: []string{"NOT_A_TYPE"}}, http.StatusBadRequest},
		{"no types", "/api/logs/enable", LogsRequest{}, http.StatusBadRequest},
		{"unknown action", "/api/logs/toggle", LogsRequest{}, http.StatusBadRequest},
		{"unknown export type", "/api/export", ExportRequest{Path: "x", Types: []string{"nope"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+tt.path, tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
	if len(port.written()) != 0 {
		t.Fatalf("written = % X", port.written())
	}

	resp, err := http.Post(ts.URL+"/api/logs/enable", "text/plain", strings.NewReader("LTE_NAS_EMM_State"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAPIExportAndStatus(t *testing.T) {
	ts, _, _ := newTestAPI(t)
	path := filepath.Join(t.TempDir(), "export.bin")

	var stats export.Stats
	decode(t, post(t, ts.URL+"/api/export", ExportRequest{Path: path, Types: []string{"LTE_NAS_EMM_State"}}), &stats)
	if stats.Path != path || !reflect.DeepEqual(stats.Types, []uint16{catalog.LteNasEmmState}) {
		t.Fatalf("stats = %+v", stats)
	}

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	var status ifc.Status
	decode(t, resp, &status)
	if status.Port != "test" || status.Export.Path != path || status.Session.Frames != 0 {
		t.Fatalf("status = %+v", status)
	}
}
