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

package command

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/srv/control"
)

type port struct {
	*bytes.Reader
	mu  sync.Mutex
	out bytes.Buffer
}

func (p *port) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.Write(b)
}

func newTestClient(t *testing.T) *ApiClient {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.DBPath = filepath.Join(t.TempDir(), "state.db")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	ctrl, err := control.NewControlServer(ctx, cfg, &port{Reader: bytes.NewReader(nil)}, "test")
	if err != nil {
		t.Fatal(err)
	}
	api, err := control.NewApiServer(ctx, cfg, ctrl)
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)

	c := NewApiClient(cfg)
	c.ApiPrefix = ts.URL + "/api"
	return c
}

func TestNewApiClientPrefix(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.API.Address = "0.0.0.0"
	cfg.API.Port = 9000
	if c := NewApiClient(cfg); c.ApiPrefix != "http://127.0.0.1:9000/api" {
		t.Fatalf("prefix = %s", c.ApiPrefix)
	}
}

func TestClientLogs(t *testing.T) {
	c := newTestClient(t)

	masks, err := c.EnableLogs([]string{"WCDMA_RRC_Serv_Cell_Info"})
	if err != nil {
		t.Fatal(err)
	}
	want := []control.Mask{{EquipID: int32(catalog.EquipWCDMA), ItemCount: 0x128, Types: []string{"WCDMA_RRC_Serv_Cell_Info"}}}
	if !reflect.DeepEqual(masks, want) {
		t.Fatalf("masks = %+v", masks)
	}
	shown, err := c.Logs()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(shown, want) {
		t.Fatalf("shown = %+v", shown)
	}
	if err := c.DisableLogs(); err != nil {
		t.Fatal(err)
	}
	if shown, err = c.Logs(); err != nil || len(shown) != 0 {
		t.Fatalf("shown = %+v, err = %v", shown, err)
	}
}

func TestClientReportsServerError(t *testing.T) {
	c := newTestClient(t)

	_, err := c.EnableLogs([]string{"NOT_A_TYPE"})
	var apiErr ErrApi
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Status != "400 Bad Request" || apiErr.Message != "Unknown log type: NOT_A_TYPE" {
		t.Fatalf("err = %+v", apiErr)
	}
}

func TestClientCatalogStatusExport(t *testing.T) {
	c := newTestClient(t)

	public, err := c.Catalog(false)
	if err != nil {
		t.Fatal(err)
	}
	all, err := c.Catalog(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(public) == 0 || len(all) != len(catalog.Default().Entries()) || len(public) >= len(all) {
		t.Fatalf("public = %d, all = %d", len(public), len(all))
	}

	path := filepath.Join(t.TempDir(), "export.bin")
	stats, err := c.Export(path, []string{"0xB0C2"})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Path != path || !reflect.DeepEqual(stats.Types, []uint16{catalog.LteRrcServCellInfo}) {
		t.Fatalf("stats = %+v", stats)
	}

	status, err := c.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status.Port != "test" || status.Export.Path != path {
		t.Fatalf("status = %+v", status)
	}
}

func TestErrApiMessage(t *testing.T) {
	err := ErrApi{Status: http.StatusText(http.StatusBadGateway)}
	if err.Error() != "Bad Gateway" {
		t.Fatalf("err = %s", err)
	}
}
