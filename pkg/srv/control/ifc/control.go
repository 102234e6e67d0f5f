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

package ifc

import (
	"net/http"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/logcfg"
	"jinr.ru/greenlab/go-diag/pkg/session"
)

// Status is what the control server reports about the running session.
type Status struct {
	Port    string
	Session session.Stats
	Export  export.Stats
}

type ControlServer interface {
	Run() error

	// EnableLogs writes one SET_MASK per equip id and remembers the masks
	EnableLogs(ids []uint16) ([]*logcfg.Message, error)
	// DisableLogs writes DISABLE and forgets all masks
	DisableLogs() error
	ConfigureExport(path string, ids []uint16) error

	Masks() ([]*logcfg.Message, error)
	Status() Status
	Catalog() *catalog.Catalog
}

type ApiServer interface {
	Run() error
	Handler() http.Handler
}
