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
	"context"

	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/srv/control"
	"jinr.ru/greenlab/go-diag/pkg/transport"
)

// StartControlServer opens the configured serial port and serves it until
// ctx is done.
func StartControlServer(ctx context.Context, cfg *config.Config) error {
	port, err := transport.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
	if err != nil {
		return err
	}
	defer func() {
		if err := port.Close(); err != nil {
			log.Error("Error while closing %s: %s", port.Name, err)
		}
	}()

	s, err := control.NewControlServer(ctx, cfg, port, port.Name)
	if err != nil {
		return err
	}
	return s.Run()
}
