package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"verigraph/internal/cache"
	"verigraph/internal/config"
	"verigraph/internal/logging"
	"verigraph/internal/metrics"
	"verigraph/internal/ontology"
	"verigraph/internal/selection"
	"verigraph/internal/trace"
)

// globalFlags are the persistent flags shared by every command. Flag values
// only override the loaded configuration when explicitly set.
type globalFlags struct {
	configPath   string
	envFile      string
	ontologyPath string
	threshold    float64
	maxTasks     int
	noMandatory  bool
	strictRefs   bool
	truncation   string
	verbose      bool
	metrics      bool
}

// app is the per-invocation state assembled before a command runs.
type app struct {
	stdout io.Writer
	stderr io.Writer
	flags  globalFlags

	invocationID string
	cfg          *config.Config
	logger       *zap.Logger
	metrics      *metrics.Metrics
	ontology     *ontology.Ontology
	engine       *selection.Engine
	selector     selection.Selector
	store        *trace.Store
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:       stdout,
		stderr:       stderr,
		invocationID: uuid.NewString(),
		logger:       zap.NewNop(),
	}
}

// loadConfig resolves configuration with precedence defaults < file < env <
// flags, then validates it.
func (a *app) loadConfig(changed func(name string) bool) error {
	if err := config.LoadDotEnv(a.flags.envFile); err != nil {
		return configErrorf(err, "%v", err)
	}
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return configErrorf(err, "%v", err)
	}

	if changed("ontology") {
		cfg.Ontology.Path = a.flags.ontologyPath
	}
	if changed("threshold") {
		cfg.Selection.DimensionThreshold = a.flags.threshold
	}
	if changed("max-tasks") {
		cfg.Selection.MaxTasks = a.flags.maxTasks
	}
	if changed("no-mandatory") {
		cfg.Selection.IncludeMandatory = !a.flags.noMandatory
	}
	if changed("strict-refs") {
		cfg.Selection.StrictReferences = a.flags.strictRefs
	}
	if changed("truncation") {
		cfg.Selection.Truncation = a.flags.truncation
	}
	if a.flags.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return configErrorf(err, "%v", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) initLogger() error {
	logger, err := logging.New(logging.Options{
		Level:       a.cfg.Log.Level,
		Development: a.cfg.Log.Development,
		Writer:      a.stderr,
	})
	if err != nil {
		return configErrorf(err, "%v", err)
	}
	a.logger = logger.With(zap.String("invocation_id", a.invocationID))
	return nil
}

func (a *app) loadOntology() error {
	if a.cfg.Ontology.Path == "" {
		a.ontology = ontology.Builtin()
	} else {
		o, err := ontology.LoadFile(a.cfg.Ontology.Path)
		if err != nil {
			return configErrorf(err, "load ontology %s: %v", a.cfg.Ontology.Path, err)
		}
		a.ontology = o
	}
	a.logger.Debug("ontology loaded",
		zap.String("path", a.cfg.Ontology.Path),
		zap.String("version", a.ontology.Version()),
		zap.String("hash", a.ontology.Hash()),
		zap.Int("tasks", a.ontology.Len()),
	)
	return nil
}

// initEngine builds the engine, optional cache and optional trace store.
func (a *app) initEngine() error {
	selCfg, err := a.cfg.SelectionConfig()
	if err != nil {
		return configErrorf(err, "%v", err)
	}
	a.metrics = metrics.New()

	eng, err := selection.New(a.ontology, selCfg,
		selection.WithLogger(a.logger),
		selection.WithObserver(a.metrics),
	)
	if err != nil {
		return configErrorf(err, "%v", err)
	}
	a.engine = eng
	a.selector = eng

	if a.cfg.Cache.Size > 0 {
		c, err := cache.New(eng, a.cfg.Cache.Size, a.metrics)
		if err != nil {
			return fmt.Errorf("init cache: %w", err)
		}
		a.selector = c
	}

	if a.cfg.Trace.Dir != "" {
		if err := os.MkdirAll(a.cfg.Trace.Dir, 0o755); err != nil {
			return configErrorf(err, "create trace dir: %v", err)
		}
		s, err := trace.NewStore(a.cfg.Trace.Dir)
		if err != nil {
			return configErrorf(err, "%v", err)
		}
		a.store = s
	}
	return nil
}

// dumpMetrics writes the metrics text exposition to stderr when requested.
func (a *app) dumpMetrics() {
	if !a.flags.metrics || a.metrics == nil {
		return
	}
	if err := a.metrics.WriteText(a.stderr); err != nil {
		a.logger.Warn("write metrics", zap.Error(err))
	}
}
