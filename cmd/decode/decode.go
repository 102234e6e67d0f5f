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

package decode

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-diag/pkg/catalog"
	"jinr.ru/greenlab/go-diag/pkg/export"
	"jinr.ru/greenlab/go-diag/pkg/log"
	"jinr.ru/greenlab/go-diag/pkg/output"
	"jinr.ru/greenlab/go-diag/pkg/session"
)

const (
	FormatOptionName      = "format"
	TypedOptionName       = "typed"
	AllOptionName         = "all"
	UnsyncedOptionName    = "unsynced"
	ExportOptionName      = "export"
	ExportTypesOptionName = "export-types"
)

type options struct {
	format      string
	typed       bool
	all         bool
	unsynced    bool
	export      string
	exportTypes []string
}

func NewCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a raw Diag capture",
		Long: `Decode a raw Diag capture and print one document per log packet.
With --all every frame is printed, including responses and frames with a bad CRC.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return run(ctx, cmd, args[0], o)
		},
	}
	cmd.Flags().StringVar(&o.format, FormatOptionName, string(output.FormatYAML), "Output format: yaml, json or msgpack")
	cmd.Flags().BoolVar(&o.typed, TypedOptionName, false, "Write the value kind next to every field")
	cmd.Flags().BoolVar(&o.all, AllOptionName, false, "Print every frame, not only log packets")
	cmd.Flags().BoolVar(&o.unsynced, UnsyncedOptionName, false, "Skip data up to the first flag byte, for captures started mid frame")
	cmd.Flags().StringVar(&o.export, ExportOptionName, "", "Write the frames of --export-types to this file")
	cmd.Flags().StringSliceVar(&o.exportTypes, ExportTypesOptionName, nil, "Log types to export, by name or hex id")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, path string, o *options) error {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var opts []session.Option
	if !o.unsynced {
		opts = append(opts, session.WithSynced())
	}
	if o.export != "" {
		ids, err := catalog.Default().Resolve(o.exportTypes)
		if err != nil {
			return err
		}
		filter := export.New()
		defer func() {
			if err := filter.Close(); err != nil {
				log.Error("Error while closing export file %s: %s", o.export, err)
			}
		}()
		if err := filter.Configure(o.export, ids); err != nil {
			return err
		}
		opts = append(opts, session.WithExport(filter))
	}
	s := session.New(opts...)

	results := make(chan *session.Result, session.InChSize)
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Run(ctx, f, results)
		close(results)
	}()

	w := output.NewWriter(cmd.OutOrStdout(), format, o.typed)
	for res := range results {
		if res.Log == nil && !o.all {
			continue
		}
		if err := w.WriteResult(res); err != nil {
			return err
		}
	}
	if err := <-errChan; err != nil {
		return err
	}

	stats := s.Stats()
	log.Info("Decoded %s: %d frames, %d logs (%d decoded, %d raw, %d unknown version, %d truncated), %d bad CRC",
		path, stats.Frames, stats.Logs, stats.Decoded, stats.Raw, stats.UnknownVersion, stats.Truncated, stats.BadCRC)
	if stats.Buffered > 0 {
		log.Warning("%d trailing bytes without a closing flag", stats.Buffered)
	}
	if o.export != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d frames to %s\n", stats.Exported, o.export)
	}
	return nil
}
