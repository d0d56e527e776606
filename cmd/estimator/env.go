package main

import (
	"fmt"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rbsiding/estimator/internal/config"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/events"
	"github.com/rbsiding/estimator/internal/logger"
	"github.com/rbsiding/estimator/internal/postal"
	"github.com/spf13/cobra"
)

// overrides are persistent flags that win over every config source.
var overrides struct {
	price      float64
	region     string
	postalFile string
	logLevel   string
	logFile    string
}

func addOverrideFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.Float64Var(&overrides.price, "price", 0, "Price per square foot (default: from config, 4.50)")
	f.StringVar(&overrides.region, "region", "", "Service region code (default: from config, WA)")
	f.StringVar(&overrides.postalFile, "postal-file", "", "YAML file of zip codes (default: embedded table)")
	f.StringVar(&overrides.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&overrides.logFile, "log-file", "", "Write logs to this file")
}

// applyOverrides copies explicitly set persistent flags onto cfg.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("price") {
		cfg.PricePerSqFt = overrides.price
	}
	if flags.Changed("region") {
		cfg.ServiceRegion = overrides.region
	}
	if flags.Changed("postal-file") {
		cfg.PostalFile = overrides.postalFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = overrides.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = overrides.logFile
	}
}

// env bundles everything a command needs to drive a wizard.
type env struct {
	cfg    *config.Config
	places *postal.Table
}

// loadEnv loads and validates config, configures logging and loads the
// postal table.
func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	places, err := postal.Load(cfg.PostalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load postal table: %w", err)
	}
	logger.Debug("Loaded %d postal codes", places.Len())

	return &env{cfg: cfg, places: places}, nil
}

// options returns wizard options derived from the config.
func (r *env) options() estimator.Options {
	return optionsFor(r.cfg, r.places)
}

func optionsFor(cfg *config.Config, places *postal.Table) estimator.Options {
	return estimator.Options{
		PricePerSqFt:       cfg.PricePerSqFt,
		Resolver:           places,
		ServiceRegion:      cfg.ServiceRegion,
		RequireServiceArea: cfg.RequireServiceArea,
		AllowZeroFootage:   cfg.AllowZeroFootage,
	}
}

// bus is a running events server with a publisher for one session.
type bus struct {
	ns        *server.Server
	nc        *nats.Conn
	publisher *events.Publisher
}

// startBus starts the embedded events server when enabled, or returns nil.
func startBus(cfg config.Events) (*bus, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ns, err := events.StartEmbedded(cfg.Port)
	if err != nil {
		return nil, err
	}
	nc, err := events.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return nil, err
	}
	b := &bus{ns: ns, nc: nc, publisher: events.NewPublisher(nc, cfg.Session)}
	logger.Info("Publishing session %q on %s", b.publisher.Session(), events.Subject(b.publisher.Session(), ">"))
	return b, nil
}

// observer returns the publishing observer, or nil for a nil bus.
func (b *bus) observer() estimator.Observer {
	if b == nil {
		return nil
	}
	return b.publisher.Observer()
}

// acknowledge publishes a contact acknowledgment. Nil-safe.
func (b *bus) acknowledge() {
	if b == nil {
		return
	}
	if err := b.publisher.Acknowledge(); err != nil {
		logger.Warn("%v", err)
	}
}

// Close drains and stops the bus. Nil-safe.
func (b *bus) Close() {
	if b == nil {
		return
	}
	if err := events.Shutdown(b.nc, b.ns); err != nil {
		logger.Warn("Events shutdown: %v", err)
	}
}
