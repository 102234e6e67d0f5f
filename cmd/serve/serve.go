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

package serve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/command"
	"jinr.ru/greenlab/go-diag/pkg/config"
)

const (
	PortOptionName = "port"
	BaudOptionName = "baud"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var port string
	var baud int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Read the diagnostic port and serve the control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Serial.Port = port
			}
			if baud != 0 {
				cfg.Serial.Baud = baud
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			err := command.StartControlServer(ctx, cfg)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&port, PortOptionName, "", fmt.Sprintf("Serial port. E.g. %s", config.DefaultSerialPort))
	cmd.Flags().IntVar(&baud, BaudOptionName, 0, fmt.Sprintf("Baud rate. Default is %d", config.DefaultBaudRate))
	return cmd
}
