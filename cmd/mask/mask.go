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

package mask

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/logcfg"
)

const (
	DisableOptionName = "disable"
	RawOptionName     = "raw"
)

func NewCommand() *cobra.Command {
	var disable, raw bool
	cmd := &cobra.Command{
		Use:   "mask [NAME...]",
		Short: "Print the log config messages for the given log types in hex",
		Long: `Print one SET_MASK per equip id for the given log types, framed and ready
to be written to a diagnostic port. With --disable print the DISABLE message.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var messages []*logcfg.Message
			if disable {
				messages = append(messages, logcfg.Disable())
			} else {
				ids, err := catalog.Default().Resolve(args)
				if err != nil {
					return err
				}
				if messages, err = logcfg.Group(ids); err != nil {
					return err
				}
			}
			for _, m := range messages {
				data, err := m.Frame()
				if raw {
					data, err = m.Bytes()
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&disable, DisableOptionName, false, "Print the DISABLE message")
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Print the message without HDLC framing")
	return cmd
}
