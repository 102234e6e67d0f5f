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

package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/output"
)

const (
	AllOptionName    = "all"
	FormatOptionName = "format"
)

func NewCommand() *cobra.Command {
	var all bool
	var format string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the known log types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalog.Default().Public()
			if all {
				entries = catalog.Default().Entries()
			}
			if format == "" {
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "0x%04X %s\n", e.TypeID, e.Name)
				}
				return nil
			}
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return output.NewWriter(cmd.OutOrStdout(), f, false).WriteValue(entries)
		},
	}
	cmd.Flags().BoolVar(&all, AllOptionName, false, "Include internal log types")
	cmd.Flags().StringVar(&format, FormatOptionName, "", "Output format: yaml, json or msgpack. Plain text by default")
	return cmd
}
