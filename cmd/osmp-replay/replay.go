package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/banshee-data/osi-field-checker/internal/addr"
	"github.com/banshee-data/osi-field-checker/internal/config"
	"github.com/banshee-data/osi-field-checker/internal/fmu"
	"github.com/banshee-data/osi-field-checker/internal/fsutil"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/osmp"
	"github.com/banshee-data/osi-field-checker/internal/report"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
	"github.com/banshee-data/osi-field-checker/internal/version"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	fields  string
	in      string
	db      string
	start   float64
	step    float64
	width   int
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("osmp-replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts := &options{}
	fs.StringVar(&opts.fields, "fields", "", "File listing required field paths, one per line")
	fs.StringVar(&opts.in, "in", "", "Length-delimited SensorData recording")
	fs.StringVar(&opts.db, "db", "", "SQLite database to record the run in (optional)")
	fs.Float64Var(&opts.start, "start", 0, "Communication point of the first message")
	fs.Float64Var(&opts.step, "step", 0.1, "Communication step size in seconds")
	fs.IntVar(&opts.width, "width", 64, "Simulated host address width (32 or 64)")
	fs.BoolVar(&opts.verbose, "v", false, "Enable trace logging")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *showVersion {
		fmt.Fprintln(stderr, version.String())
		return nil, flag.ErrHelp
	}
	if opts.fields == "" || opts.in == "" {
		return nil, errors.New("both -fields and -in are required")
	}
	if opts.step <= 0 {
		return nil, fmt.Errorf("-step must be positive, got %g", opts.step)
	}
	if !addr.Width(opts.width).Valid() {
		return nil, fmt.Errorf("-width must be 32 or 64, got %d", opts.width)
	}
	return opts, nil
}

// splitRecording cuts a length-delimited recording into messages.
func splitRecording(data []byte) ([][]byte, error) {
	var msgs [][]byte
	for offset := 0; len(data) > 0; {
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return nil, fmt.Errorf("recording corrupt at byte %d: %w", offset, protowire.ParseError(n))
		}
		msgs = append(msgs, msg)
		data = data[n:]
		offset += n
	}
	return msgs, nil
}

// appendRecord appends msg to a recording.
func appendRecord(rec, msg []byte) []byte {
	return protowire.AppendBytes(rec, msg)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	failed, err := replay(opts, fsutil.OSFileSystem{}, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "osmp-replay: %v\n", err)
		return exitUsage
	}
	if failed {
		return exitFailed
	}
	return exitOK
}

func replay(opts *options, fsys fsutil.FileSystem, stdout, stderr io.Writer) (bool, error) {
	data, err := fsys.ReadFile(opts.in)
	if err != nil {
		return false, fmt.Errorf("read recording: %w", err)
	}
	msgs, err := splitRecording(data)
	if err != nil {
		return false, err
	}

	space := osmp.NewRegistry(addr.Width(opts.width))
	var failed bool
	reporters := report.Multi{
		report.Annotations{W: stdout},
		report.ResultFunc(func(f bool) { failed = f }),
	}
	if opts.db != "" {
		reporters = append(reporters, report.SQLiteFile{Path: opts.db})
	}

	comp, err := fmu.New(fmu.Options{
		InstanceName: "osmp-replay",
		LoggingOn:    opts.verbose,
		Config:       config.EmptyComponentConfig(),
		FS:           fsys,
		Space:        space,
		Reporter:     reporters,
		Sink: func(level monitoring.Level, category monitoring.Category, msg string) {
			if level == monitoring.LevelWarning {
				fmt.Fprintf(stderr, "[%s] warning: %s\n", category, msg)
				return
			}
			fmt.Fprintf(stderr, "[%s] %s\n", category, msg)
		},
	})
	if err != nil {
		return false, err
	}
	defer comp.FreeInstance()

	if err := comp.SetString([]scalar.Ref{fmu.StringCheckFile}, []string{opts.fields}); err != nil {
		return false, err
	}
	if err := comp.EnterInitializationMode(); err != nil {
		return false, err
	}
	if err := comp.ExitInitializationMode(); err != nil {
		return false, err
	}

	inRefs := []scalar.Ref{fmu.IntegerSensorDataInBaseLo, fmu.IntegerSensorDataInBaseHi, fmu.IntegerSensorDataInSize}
	for i, msg := range msgs {
		address, err := space.Register(msg)
		if err != nil {
			return false, err
		}
		h, err := space.Width().Encode(address)
		if err != nil {
			return false, err
		}
		if err := comp.SetInteger(inRefs, []int32{h.Lo, h.Hi, int32(len(msg))}); err != nil {
			return false, err
		}
		if err := comp.DoStep(opts.start+float64(i)*opts.step, opts.step); err != nil {
			return false, fmt.Errorf("step %d: %w", i, err)
		}
		space.Release(address)
	}

	if err := comp.Terminate(); err != nil {
		return false, err
	}
	sum := comp.Report().Summary
	fmt.Fprintf(stderr, "%d step(s), %d checked, mean %.1f objects, max %d\n",
		sum.Steps, sum.CheckedSteps, sum.MeanObjects, sum.MaxObjects)
	return failed, nil
}
