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

package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/command"
	"jinr.ru/greenlab/go-diag/pkg/config"
)

const (
	PathOptionName = "path"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export [NAME...]",
		Short: "Write the raw frames of the given log types to a file on the server",
		Long: `Write the raw frames of the given log types to a file on the server.
An empty --path stops exporting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := command.NewApiClient(cfg).Export(path, args)
			if err != nil {
				return err
			}
			if stats.Path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Export stopped")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exporting %d log types to %s\n", len(stats.Types), stats.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, PathOptionName, "", "Export file")
	return cmd
}
