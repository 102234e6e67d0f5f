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
	"sync"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// NewDefault returns a registry with every built-in decoder.
func NewDefault(cat *catalog.Catalog) *Registry {
	r := NewRegistry(cat)
	registerLTE(r)
	registerWCDMA(r)
	return r
}

// Default returns a shared registry over the default catalog. Registries are
// read only once built, so sharing one is safe.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewDefault(catalog.Default())
	})
	return defaultRegistry
}
