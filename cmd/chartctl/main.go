// Package main provides the chartctl command line tool.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/querychart/internal/config"
	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/JonMunkholm/querychart/internal/logging"
	"github.com/JonMunkholm/querychart/internal/render"
)

const (
	defaultConfigPath = "chartctl.toml"
	defaultLogLevel   = "warn"
	defaultOutput     = "json"
)

// options holds the flag values shared by the chart commands.
type options struct {
	configPath string
	logLevel   string
	output     string

	kind   string
	scheme string
	title  string
	xField string
	yField string
	locale string

	format string
	width  int
	height int
	out    string

	diffMode  string
	diffLimit int
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "chartctl",
		Short:         "Build, render and export charts from pasted query results",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfigPath, "TOML file with default flag values")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSpecCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))
	rootCmd.AddCommand(newFieldsCmd(opts))
	rootCmd.AddCommand(newDiffCmd(opts))
	rootCmd.AddCommand(newSchemesCmd(opts))

	return rootCmd
}

// load reads the config file and applies it to every flag the user did not
// set explicitly.
func (o *options) load(cmd *cobra.Command) error {
	fileCfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyStringConfig(cmd, "log-level", &o.logLevel, fileCfg.LogLevel)
	applyStringConfig(cmd, "output", &o.output, fileCfg.Output)
	applyStringConfig(cmd, "kind", &o.kind, fileCfg.Chart.Kind)
	applyStringConfig(cmd, "scheme", &o.scheme, fileCfg.Chart.Scheme)
	applyStringConfig(cmd, "locale", &o.locale, fileCfg.Chart.Locale)
	applyStringConfig(cmd, "x-field", &o.xField, fileCfg.Chart.XField)
	applyStringConfig(cmd, "y-field", &o.yField, fileCfg.Chart.YField)
	applyStringConfig(cmd, "format", &o.format, fileCfg.Render.Format)
	applyIntConfig(cmd, "width", &o.width, fileCfg.Render.Width)
	applyIntConfig(cmd, "height", &o.height, fileCfg.Render.Height)

	logging.SetupWriter(cmd.ErrOrStderr(), o.logLevel, "text")
	slog.Debug("config loaded", "path", o.configPath, "command", cmd.Name())
	return nil
}

func addChartFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVar(&o.kind, "kind", string(core.KindBar), "chart type (bar, line, pie, doughnut)")
	cmd.Flags().StringVar(&o.scheme, "scheme", core.DefaultScheme, "colour scheme")
	cmd.Flags().StringVar(&o.title, "title", "", "chart title")
	cmd.Flags().StringVar(&o.xField, "x-field", "", "label field (default: first field)")
	cmd.Flags().StringVar(&o.yField, "y-field", "", "value field (default: second field)")
	cmd.Flags().StringVar(&o.locale, "locale", "", "locale for tooltip numbers (default: en-US)")
}

func addImageFlags(cmd *cobra.Command, o *options) {
	cmd.Flags().IntVar(&o.width, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&o.height, "height", render.DefaultHeight, "image height in pixels")
}

func addOutputFlag(cmd *cobra.Command, o *options) {
	cmd.Flags().StringVarP(&o.output, "output", "o", defaultOutput, "output encoding (json, yaml)")
}

func newSpecCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spec [file]",
		Short: "Print the chart spec built from a data file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := o.buildSpec(cmd, args)
			if err != nil {
				return err
			}
			return writeEncoded(cmd.OutOrStdout(), o.output, spec)
		},
	}
	addChartFlags(cmd, o)
	addOutputFlag(cmd, o)
	return cmd
}

func newRenderCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a chart image from a data file (or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(o.format)
			if err != nil {
				return err
			}
			spec, err := o.buildSpec(cmd, args)
			if err != nil {
				return err
			}

			renderer := render.NewRenderer(render.WithSize(o.width, o.height))
			var buf bytes.Buffer
			if err := renderer.Render(cmd.Context(), spec, format, &buf); err != nil {
				return err
			}
			return o.writeOut(cmd, buf.Bytes())
		},
	}
	addChartFlags(cmd, o)
	addImageFlags(cmd, o)
	cmd.Flags().StringVar(&o.format, "format", string(render.FormatSVG), "image format (svg, png)")
	cmd.Flags().StringVar(&o.out, "out", "", "output file (default: stdout)")
	return cmd
}

func newExportCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the data and a native chart to an Excel workbook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := o.buildSpec(cmd, args)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := render.ExportXLSX(spec, &buf); err != nil {
				return err
			}
			return o.writeOut(cmd, buf.Bytes())
		},
	}
	addChartFlags(cmd, o)
	cmd.Flags().StringVar(&o.out, "out", "", "output file (default: stdout)")
	return cmd
}

func newFieldsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields [file]",
		Short: "List the fields of a data file and the axes a chart would use",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			service, err := o.service()
			if err != nil {
				return err
			}
			res, err := service.Fields(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return writeEncoded(cmd.OutOrStdout(), o.output, res)
		},
	}
	addOutputFlag(cmd, o)
	return cmd
}

func newDiffCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <original> <corrected>",
		Short: "Show word-level changes between two query files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := core.ParseDiffMode(o.diffMode)
			if err != nil {
				return err
			}
			original, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read original: %w", err)
			}
			corrected, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read corrected: %w", err)
			}

			res := core.DiffWith(string(original), string(corrected), core.DiffOptions{Mode: mode, Limit: o.diffLimit})
			if cmd.Flags().Changed("output") {
				return writeEncoded(cmd.OutOrStdout(), o.output, res)
			}
			return writeDiff(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&o.diffMode, "mode", string(core.DiffPositional), "comparison mode (positional, aligned)")
	cmd.Flags().IntVar(&o.diffLimit, "limit", core.DefaultDiffLimit, "changes shown before the overflow line")
	addOutputFlag(cmd, o)
	return cmd
}

func newSchemesCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemes",
		Short: "List the built-in colour schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("output") {
				return writeEncoded(cmd.OutOrStdout(), o.output, core.Schemes())
			}
			w := cmd.OutOrStdout()
			for _, s := range core.Schemes() {
				if _, err := fmt.Fprintf(w, "%-12s %s\n", s.Name, strings.Join(s.Colors, " ")); err != nil {
					return err
				}
			}
			return nil
		},
	}
	addOutputFlag(cmd, o)
	return cmd
}

func (o *options) service() (*core.Service, error) {
	locale, err := core.ParseLocale(o.locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", o.locale, err)
	}
	return core.NewService(1, core.WithBuilder(core.NewBuilder(core.WithLocale(locale))))
}

func (o *options) buildSpec(cmd *cobra.Command, args []string) (*core.ChartSpec, error) {
	kind, err := core.ParseChartKind(o.kind)
	if err != nil {
		return nil, err
	}
	raw, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	service, err := o.service()
	if err != nil {
		return nil, err
	}

	spec, err := service.BuildChart(cmd.Context(), raw, core.BuildParams{
		Kind:   kind,
		Scheme: o.scheme,
		Title:  o.title,
		XField: o.xField,
		YField: o.yField,
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("chart built", "kind", spec.Kind, "points", len(spec.Labels))
	return spec, nil
}

func (o *options) writeOut(cmd *cobra.Command, data []byte) error {
	if o.out == "" || o.out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(o.out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", o.out, err)
	}
	slog.Info("wrote file", "path", o.out, "bytes", len(data))
	return nil
}

// readInput reads the data file named by args, or stdin when there is none
// or it is "-".
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		return core.ReadInput(cmd.InOrStdin(), core.DefaultMaxInputBytes)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	defer f.Close()
	return core.ReadInput(f, core.DefaultMaxInputBytes)
}

func writeEncoded(w io.Writer, output string, v any) error {
	switch strings.ToLower(output) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output %q (must be json or yaml)", output)
	}
}

func writeDiff(w io.Writer, res core.DiffResult) error {
	if res.Empty() {
		_, err := fmt.Fprintln(w, "No changes")
		return err
	}
	for _, e := range res.Entries {
		if _, err := fmt.Fprintln(w, e.Describe()); err != nil {
			return err
		}
	}
	if more := res.OverflowText(); more != "" {
		if _, err := fmt.Fprintln(w, more); err != nil {
			return err
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}
