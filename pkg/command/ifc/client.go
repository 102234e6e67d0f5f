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
	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/srv/control"
	srvifc "jinr.ru/greenlab/go-diag/pkg/srv/control/ifc"
)

type ApiClient interface {
	Catalog(all bool) ([]catalog.Entry, error)
	Status() (*srvifc.Status, error)
	Logs() ([]control.Mask, error)
	EnableLogs(names []string) ([]control.Mask, error)
	DisableLogs() error
	Export(path string, names []string) (*export.Stats, error)
}
