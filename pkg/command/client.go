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
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/command/ifc"
	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/srv/control"
	srvifc "jinr.ru/greenlab/go-diag/pkg/srv/control/ifc"
)

// ErrApi is returned when the control server answers with a non 200 status.
type ErrApi struct {
	Status  string
	Message string
}

func (e ErrApi) Error() string {
	if e.Message == "" {
		return e.Status
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

var _ ifc.ApiClient = &ApiClient{}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: cfg.APIURL() + "/api",
	}
}

func check(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return ErrApi{
			Status:  r.Response().Status,
			Message: strings.TrimSpace(r.String()),
		}
	}
	return nil
}

func (c *ApiClient) get(path string, v interface{}, params ...interface{}) error {
	r, err := req.Get(c.ApiPrefix+path, params...)
	if err != nil {
		return err
	}
	if err := check(r); err != nil {
		return err
	}
	return r.ToJSON(v)
}

func (c *ApiClient) post(path string, body, v interface{}) error {
	r, err := req.Post(c.ApiPrefix+path, req.BodyJSON(body))
	if err != nil {
		return err
	}
	if err := check(r); err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return r.ToJSON(v)
}

// Catalog lists the log types the server knows. Internal types are only
// listed when all is set.
func (c *ApiClient) Catalog(all bool) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := c.get("/catalog", &entries, req.Param{"all": all}); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *ApiClient) Status() (*srvifc.Status, error) {
	status := &srvifc.Status{}
	if err := c.get("/status", status); err != nil {
		return nil, err
	}
	return status, nil
}

// Logs returns the masks currently applied to the device.
func (c *ApiClient) Logs() ([]control.Mask, error) {
	var masks []control.Mask
	if err := c.get("/logs", &masks); err != nil {
		return nil, err
	}
	return masks, nil
}

// EnableLogs asks the server to enable log types given by name or hex id
func (c *ApiClient) EnableLogs(names []string) ([]control.Mask, error) {
	var masks []control.Mask
	if err := c.post("/logs/enable", &control.LogsRequest{Types: names}, &masks); err != nil {
		return nil, err
	}
	return masks, nil
}

func (c *ApiClient) DisableLogs() error {
	return c.post("/logs/disable", &control.LogsRequest{}, nil)
}

// Export switches the export sink of the server. An empty path stops exporting.
func (c *ApiClient) Export(path string, names []string) (*export.Stats, error) {
	stats := &export.Stats{}
	body := &control.ExportRequest{Path: path, Types: names}
	if err := c.post("/export", body, stats); err != nil {
		return nil, err
	}
	return stats, nil
}
