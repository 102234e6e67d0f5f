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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/cmd/catalog"
	"jinr.ru/greenlab/go-diag/cmd/completion"
	"jinr.ru/greenlab/go-diag/cmd/config"
	"jinr.ru/greenlab/go-diag/cmd/decode"
	"jinr.ru/greenlab/go-diag/cmd/export"
	"jinr.ru/greenlab/go-diag/cmd/logs"
	"jinr.ru/greenlab/go-diag/cmd/mask"
	"jinr.ru/greenlab/go-diag/cmd/ports"
	"jinr.ru/greenlab/go-diag/cmd/serve"
	pkgconfig "jinr.ru/greenlab/go-diag/pkg/config"
	"jinr.ru/greenlab/go-diag/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	// subcommands share cfg; it is filled in once flags are parsed
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:          "go-diag",
		Short:        "Tool to decode Qualcomm Diag logs and control which logs a device emits",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := pkgconfig.Load(configPath)
			if err != nil {
				return err
			}
			*cfg = *loaded
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if cfg.LogFile != "" {
				return log.InitFile(cfg.LogFile, cfg.LogLevel)
			}
			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Close()
		},
	}
	cmd.SetOut(out)
	cmd.AddCommand(catalog.NewCommand())
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(decode.NewCommand())
	cmd.AddCommand(export.NewCommand(cfg))
	cmd.AddCommand(logs.NewCommand(cfg))
	cmd.AddCommand(mask.NewCommand())
	cmd.AddCommand(ports.NewCommand())
	cmd.AddCommand(serve.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "",
		fmt.Sprintf("Config file. Default is %s", pkgconfig.DefaultConfigPath()))
	return cmd
}
