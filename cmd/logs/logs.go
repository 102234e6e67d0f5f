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

package logs

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/command"
	"jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/srv/control"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Enable, disable and show the log types a device emits",
	}
	cmd.AddCommand(NewEnableCommand(cfg))
	cmd.AddCommand(NewDisableCommand(cfg))
	cmd.AddCommand(NewShowCommand(cfg))
	return cmd
}

func printMasks(out io.Writer, masks []control.Mask) {
	if len(masks) == 0 {
		fmt.Fprintln(out, "No log types enabled")
		return
	}
	for _, m := range masks {
		fmt.Fprintf(out, "Equip id %d (%d items): %s\n", m.EquipID, m.ItemCount, strings.Join(m.Types, ", "))
	}
}

func NewEnableCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enable NAME...",
		Short: "Enable log types, given by name or hex id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			masks, err := apiClient.EnableLogs(args)
			if err != nil {
				return err
			}
			printMasks(cmd.OutOrStdout(), masks)
			return nil
		},
	}
	return cmd
}

func NewDisableCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disable",
		Short: "Disable all log types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.NewApiClient(cfg).DisableLogs()
		},
	}
	return cmd
}

func NewShowCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show enabled log types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			masks, err := command.NewApiClient(cfg).Logs()
			if err != nil {
				return err
			}
			printMasks(cmd.OutOrStdout(), masks)
			return nil
		},
	}
	return cmd
}
