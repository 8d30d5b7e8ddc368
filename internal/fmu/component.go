package fmu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/looplab/fsm"

	"github.com/banshee-data/osi-field-checker/internal/checker"
	"github.com/banshee-data/osi-field-checker/internal/config"
	"github.com/banshee-data/osi-field-checker/internal/fsutil"
	"github.com/banshee-data/osi-field-checker/internal/monitoring"
	"github.com/banshee-data/osi-field-checker/internal/osmp"
	"github.com/banshee-data/osi-field-checker/internal/report"
	"github.com/banshee-data/osi-field-checker/internal/scalar"
)

// Options configures a new Component. Only InstanceName is required; the
// zero value of every other field picks the production default.
type Options struct {
	InstanceName string
	// ResourceDir holds config.json and the default check file.
	ResourceDir string
	LoggingOn   bool

	// Config overrides loading config.json from ResourceDir.
	Config *config.ComponentConfig
	// FS defaults to the real file system.
	FS fsutil.FileSystem
	// Space defaults to native process memory.
	Space osmp.AddressSpace
	// Sink receives log records; nil logs through monitoring.Logf.
	Sink monitoring.Sink
	// Reporter overrides the reporters derived from Config.
	Reporter report.Reporter
	// Stdout receives workflow annotations. Defaults to os.Stdout.
	Stdout io.Writer
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Component is one field checker instance. It is not safe for concurrent
// use; the host drives an instance from one thread at a time.
type Component struct {
	name        string
	resourceDir string
	cfg         *config.ComponentConfig
	fs          fsutil.FileSystem

	log      *monitoring.Logger
	vars     *scalar.Store
	exchange *osmp.Exchange
	fsm      *fsm.FSM
	reporter report.Reporter

	expected checker.FieldSet
	missing  *checker.MissingFields
	stats    runStats
	freed    bool
}

// New instantiates a component in StateInstantiated with every variable
// zeroed.
func New(opts Options) (*Component, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = config.LoadFromResources(fsys, opts.ResourceDir)
		if err != nil {
			return nil, fmt.Errorf("load component config: %w", err)
		}
	}

	log := monitoring.NewLogger(opts.LoggingOn)
	log.SetSink(opts.Sink)
	log.Configure(opts.LoggingOn, cfg.LogCategories)

	space := opts.Space
	if space == nil {
		space = osmp.NewNativeMemory()
	}
	vars := scalar.NewStore(Capacity)
	exchange, err := osmp.NewExchange(vars, space, BufferLayout, log)
	if err != nil {
		return nil, err
	}

	c := &Component{
		name:        opts.InstanceName,
		resourceDir: opts.ResourceDir,
		cfg:         cfg,
		fs:          fsys,
		log:         log,
		vars:        vars,
		exchange:    exchange,
		expected:    checker.NewFieldSet(),
		missing:     checker.NewMissingFields(),
	}
	c.reporter = opts.Reporter
	if c.reporter == nil {
		c.reporter = defaultReporter(cfg, opts, fsys)
	}
	c.fsm = fsm.NewFSM(
		StateInstantiated,
		lifecycleEvents(),
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				c.log.Logf(monitoring.CategoryFMI, "%s: %s -> %s", e.Event, e.Src, e.Dst)
			},
		},
	)
	c.log.Logf(monitoring.CategoryFMI, "Instantiating %s (resources %q)", c.name, c.resourceDir)
	return c, nil
}

func defaultReporter(cfg *config.ComponentConfig, opts Options, fsys fsutil.FileSystem) report.Reporter {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	var multi report.Multi
	if cfg.GetAnnotations() {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		multi = append(multi, report.Annotations{W: w})
	}
	if path := cfg.GetGitHubOutput(getenv); path != "" {
		multi = append(multi, report.GitHubOutput{FS: fsys, Path: path})
	}
	if path := cfg.GetReportDatabase(opts.ResourceDir); path != "" {
		multi = append(multi, report.SQLiteFile{Path: path})
	}
	return multi
}

// InstanceName returns the name the host gave this instance.
func (c *Component) InstanceName() string { return c.name }

// Logger returns the instance logger.
func (c *Component) Logger() *monitoring.Logger { return c.log }

// SetDebugLogging switches trace logging and selects categories. An empty
// list selects all categories.
func (c *Component) SetDebugLogging(on bool, categories []string) error {
	c.log.Configure(on, categories)
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetDebugLogging(%t, %v)", on, categories)
	return nil
}

// SetupExperiment accepts any experiment bounds.
func (c *Component) SetupExperiment(toleranceDefined bool, tolerance, startTime float64, stopTimeDefined bool, stopTime float64) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetupExperiment(%t,%g,%g,%t,%g)", toleranceDefined, tolerance, startTime, stopTimeDefined, stopTime)
	return nil
}

// EnterInitializationMode moves from StateInstantiated to
// StateInitializationMode. Calling it again before ExitInitializationMode is a
// no-op.
func (c *Component) EnterInitializationMode() error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2EnterInitializationMode()")
	return c.fire(EventEnterInitialization)
}

// ExitInitializationMode loads the required field paths and enters
// StateStepMode. A missing or unreadable check file only warns: the run then
// checks nothing and always passes.
func (c *Component) ExitInitializationMode() error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2ExitInitializationMode()")
	if err := c.fire(EventExitInitialization); err != nil {
		return err
	}
	c.expected = c.loadExpected()
	c.log.Logf(monitoring.CategoryOSI, "Checking %d field(s)", len(c.expected))
	return nil
}

func (c *Component) checkFilePath() string {
	if p, _ := c.vars.Strings.Get(StringCheckFile); p != "" {
		return p
	}
	return c.cfg.GetCheckFile(c.resourceDir)
}

func (c *Component) loadExpected() checker.FieldSet {
	path := c.checkFilePath()
	f, err := c.fs.Open(path)
	if err != nil {
		c.log.Warnf(monitoring.CategoryOSI, "OSI check file %s not found, no fields will be checked", path)
		return checker.NewFieldSet()
	}
	defer f.Close()

	expected, err := checker.LoadExpected(f)
	if err != nil {
		c.log.Warnf(monitoring.CategoryOSI, "reading OSI check file %s: %v", path, err)
		return checker.NewFieldSet()
	}
	for _, p := range expected.Sorted() {
		if !slices.Contains(checker.KnownPaths(), p) {
			c.log.Warnf(monitoring.CategoryOSI, "unknown field path %q is never reported missing", p)
		}
	}
	return expected
}

// DoStep reads the input message, checks it once currentTime is past the
// configured start time, and forwards it. Without a usable input the output
// is cleared and the valid flag dropped.
func (c *Component) DoStep(currentTime, stepSize float64) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2DoStep(%g,%g)", currentTime, stepSize)
	if state := c.fsm.Current(); state != StateStepMode {
		return fmt.Errorf("%w: DoStep in state %s", ErrInvalidState, state)
	}
	c.stats.step()

	msg, err := c.exchange.ReadInput()
	switch {
	case errors.Is(err, osmp.ErrNoInput):
	case err != nil:
		c.log.Warnf(monitoring.CategoryOSMP, "discarding input at %g: %v", currentTime, err)
	}
	if err != nil || currentTime <= c.cfg.GetCheckStartTime() {
		c.clearOutput()
		return nil
	}

	found := checker.Check(msg, c.expected)
	for _, p := range c.missing.Merge(found, currentTime) {
		c.log.Warnf(monitoring.CategoryOSI, "%g: missing %s", currentTime, p)
	}
	c.log.Logf(monitoring.CategoryOSI, "%g: sensor data at %g s, %d object(s), %d field(s) missing",
		currentTime, msg.Timestamp.AsSeconds(), len(msg.MovingObject), len(found))
	if msg.HasUnknown() {
		c.log.Logf(monitoring.CategoryOSI, "%g: forwarding fields outside the checked subset", currentTime)
	}

	if err := c.exchange.PublishOutput(msg.Clone()); err != nil {
		c.clearOutput()
		return fmt.Errorf("publish output: %w", err)
	}
	count := len(msg.MovingObject)
	c.vars.Booleans.Set(BooleanValid, true)
	c.vars.Integers.Set(IntegerCount, int32(count))
	c.stats.checked(count)
	return nil
}

func (c *Component) clearOutput() {
	c.exchange.ResetOutput()
	c.vars.Booleans.Set(BooleanValid, false)
	c.vars.Integers.Set(IntegerCount, 0)
}

// CancelStep has nothing to cancel since DoStep is synchronous.
func (c *Component) CancelStep() error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2CancelStep()")
	return nil
}

// Terminate ends the run and hands the report to the reporters. Reporter
// failures are logged; the transition happens regardless.
func (c *Component) Terminate() error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2Terminate()")
	if err := c.fire(EventTerminate); err != nil {
		return err
	}
	r := c.Report()
	if err := c.reporter.Report(r); err != nil {
		c.log.Warnf(monitoring.CategoryFMI, "reporting run result: %v", err)
	}
	if r.Failed() {
		c.log.Warnf(monitoring.CategoryOSI, "%d required field(s) missing", len(r.Violations))
	}
	return nil
}

// Report returns the findings accumulated so far.
func (c *Component) Report() report.RunReport {
	return report.RunReport{
		InstanceName:   c.name,
		ExpectedFields: len(c.expected),
		Violations:     c.missing.Violations(),
		Summary:        c.stats.summary(),
	}
}

// Reset returns the instance to StateInstantiated with all variables zeroed
// and a fresh run. Buffers already handed to the host stay valid until the
// next two publishes.
func (c *Component) Reset() error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2Reset()")
	if err := c.fire(EventReset); err != nil {
		return err
	}
	c.vars.Zero()
	c.expected = checker.NewFieldSet()
	c.missing.Clear()
	c.stats.reset()
	return nil
}

// FreeInstance releases both output buffers. The component must not be used
// afterwards.
func (c *Component) FreeInstance() {
	if c.freed {
		return
	}
	c.log.Logf(monitoring.CategoryFMI, "fmi2FreeInstance()")
	c.exchange.Close()
	c.freed = true
}

// GetReal copies the values of refs into out.
func (c *Component) GetReal(refs []scalar.Ref, out []float64) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2GetReal(%v)", refs)
	return c.vars.Reals.GetBatch(refs, out)
}

// GetInteger copies the values of refs into out.
func (c *Component) GetInteger(refs []scalar.Ref, out []int32) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2GetInteger(%v)", refs)
	return c.vars.Integers.GetBatch(refs, out)
}

// GetBoolean copies the values of refs into out.
func (c *Component) GetBoolean(refs []scalar.Ref, out []bool) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2GetBoolean(%v)", refs)
	return c.vars.Booleans.GetBatch(refs, out)
}

// GetString copies the values of refs into out.
func (c *Component) GetString(refs []scalar.Ref, out []string) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2GetString(%v)", refs)
	return c.vars.Strings.GetBatch(refs, out)
}

// SetReal stores values at refs.
func (c *Component) SetReal(refs []scalar.Ref, values []float64) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetReal(%v)", refs)
	return c.vars.Reals.SetBatch(refs, values)
}

// SetInteger stores values at refs.
func (c *Component) SetInteger(refs []scalar.Ref, values []int32) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetInteger(%v)", refs)
	return c.vars.Integers.SetBatch(refs, values)
}

// SetBoolean stores values at refs.
func (c *Component) SetBoolean(refs []scalar.Ref, values []bool) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetBoolean(%v)", refs)
	return c.vars.Booleans.SetBatch(refs, values)
}

// SetString stores values at refs.
func (c *Component) SetString(refs []scalar.Ref, values []string) error {
	c.log.Logf(monitoring.CategoryFMI, "fmi2SetString(%v)", refs)
	return c.vars.Strings.SetBatch(refs, values)
}
