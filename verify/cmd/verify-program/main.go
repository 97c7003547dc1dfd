// Command verify-program lints, translates and simulates a vertex program
// file and prints a verification report followed by the generated GLSL.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/nv2avsh/config"
	"github.com/sarchlab/nv2avsh/core"
	"github.com/sarchlab/nv2avsh/program"
	"github.com/sarchlab/nv2avsh/verify"
)

type options struct {
	configPath    string
	glslVersion   int
	debugFeedback bool
	trace         bool
	dump          bool
	reportPath    string
	outPath       string
	logPath       string
	inputs        []string
	constants     []string
}

func addFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVarP(&o.configPath, "config", "c", "",
		"YAML translator configuration")
	fs.IntVar(&o.glslVersion, "glsl-version", 0,
		"override the #version of the generated shader")
	fs.BoolVar(&o.debugFeedback, "debug-feedback", false,
		"emit debug varyings for every slot")
	fs.BoolVar(&o.trace, "trace", false, "log every decoded slot")
	fs.BoolVar(&o.dump, "dump", false, "dump the decoded instructions")
	fs.StringVar(&o.reportPath, "report", "",
		"also write the verification report to this file")
	fs.StringVarP(&o.outPath, "out", "o", "",
		"write the GLSL source to this file instead of stdout")
	fs.StringVar(&o.logPath, "log", "",
		"write JSON logs to this file instead of stderr")
	fs.StringArrayVarP(&o.inputs, "input", "i", nil,
		"simulated input register, e.g. v0=1,2,3,1")
	fs.StringArrayVar(&o.constants, "const", nil,
		"simulated constant, e.g. c96=1,0,0,0")
}

func main() {
	o := &options{}
	code := 0

	cmd := &cobra.Command{
		Use:   "verify-program <program.yaml|program.hex>",
		Short: "Verify and translate an NV2A vertex program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			passed, err := run(o, cmd, args[0])
			if err != nil {
				return err
			}

			if !passed {
				code = 1
			}

			return nil
		},
	}
	cmd.SilenceUsage = true
	addFlags(cmd.Flags(), o)

	if err := cmd.Execute(); err != nil {
		code = 2
	}

	atexit.Exit(code)
}

func run(o *options, cmd *cobra.Command, path string) (bool, error) {
	c, err := loadConfig(o, cmd.Flags())
	if err != nil {
		return false, err
	}

	logOut := io.Writer(os.Stderr)
	if o.logPath != "" {
		f, err := os.Create(o.logPath)
		if err != nil {
			return false, err
		}
		atexit.Register(func() { f.Close() })
		logOut = f
	}

	handler := slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: c.LogLevel(),
	})
	slog.SetDefault(slog.New(handler))

	p, err := program.LoadProgramFile(path)
	if err != nil {
		return false, err
	}

	slog.Info("Loaded program",
		"Name", p.Name,
		"Version", p.Version,
		"Slots", len(p.Slots),
	)

	if o.dump {
		dump(cmd.OutOrStdout(), p)
	}

	setup, err := simulationSetup(o)
	if err != nil {
		return false, err
	}

	t := c.Builder().Build()

	report := verify.GenerateReport(p, t, setup)
	report.WriteReport(cmd.OutOrStdout())

	if o.reportPath != "" {
		if err := report.SaveReportToFile(o.reportPath); err != nil {
			return false, err
		}
	}

	if report.TranslateErr != nil {
		return false, nil
	}

	src, err := p.Translate(t)
	if err != nil {
		return false, err
	}

	if err := writeSource(cmd.OutOrStdout(), o.outPath, src); err != nil {
		return false, err
	}

	return report.Passed(), nil
}

func loadConfig(o *options, fs *pflag.FlagSet) (config.Config, error) {
	c := config.Default()

	if o.configPath != "" {
		var err error
		c, err = config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	if fs.Changed("glsl-version") {
		c = c.WithGLSLVersion(o.glslVersion)
	}

	if fs.Changed("debug-feedback") {
		c = c.WithDebugFeedback(o.debugFeedback)
	}

	if fs.Changed("trace") {
		c = c.WithTrace(o.trace)
	}

	return c, c.Validate()
}

func dump(w io.Writer, p *program.Program) {
	insts, err := core.DecodeProgram(p.Slots)
	if err != nil {
		fmt.Fprintf(w, "decode: %v\n", err)
	}

	for i, in := range insts {
		fmt.Fprintln(w, core.RenderSlot(i, in.Slot))
		spew.Fdump(w, in.Writes)
	}
}

func simulationSetup(o *options) (func(*verify.FunctionalSimulator) error, error) {
	inputs, err := parseAssignments(o.inputs, "v")
	if err != nil {
		return nil, err
	}

	constants, err := parseAssignments(o.constants, "c")
	if err != nil {
		return nil, err
	}

	return func(fs *verify.FunctionalSimulator) error {
		for index, v := range inputs {
			if err := fs.SetInput(index, v); err != nil {
				return err
			}
		}

		for index, v := range constants {
			if err := fs.SetConstant(index, v); err != nil {
				return err
			}
		}

		return nil
	}, nil
}

// parseAssignments parses "<prefix><index>=x,y,z,w" values. Missing trailing
// components keep the register default of (0,0,0,1).
func parseAssignments(values []string, prefix string) (map[int]verify.Vec4, error) {
	out := make(map[int]verify.Vec4, len(values))

	for _, value := range values {
		name, lanes, ok := strings.Cut(value, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			return nil, fmt.Errorf("%q: want %sN=x,y,z,w", value, prefix)
		}

		index, err := strconv.Atoi(strings.TrimPrefix(name, prefix))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", value, err)
		}

		parts := strings.Split(lanes, ",")
		if len(parts) > 4 {
			return nil, fmt.Errorf("%q: more than four components", value)
		}

		v := verify.Vec4{0, 0, 0, 1}
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
			if err != nil {
				return nil, fmt.Errorf("%q: %w", value, err)
			}
			v[i] = float32(f)
		}

		out[index] = v
	}

	return out, nil
}

func writeSource(stdout io.Writer, path, src string) error {
	if path == "" {
		_, err := io.WriteString(stdout, src)
		return err
	}

	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return err
	}

	slog.Info("Wrote shader", "Path", path, "Bytes", len(src))

	return nil
}
