package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coraldb/maintd/pkg/agency"
	"github.com/coraldb/maintd/pkg/agent"
	"github.com/coraldb/maintd/pkg/engine"
	"github.com/coraldb/maintd/pkg/log"
	"github.com/coraldb/maintd/pkg/metrics"
	"github.com/coraldb/maintd/pkg/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Config is the agent configuration, loadable from a YAML file with every
// field overridable by a flag.
type Config struct {
	ServerID    string        `yaml:"serverId"`
	Agency      []string      `yaml:"agency"`
	Engine      string        `yaml:"engine"`
	DataDir     string        `yaml:"dataDir"`
	Interval    time.Duration `yaml:"interval"`
	QueueSize   int           `yaml:"queueSize"`
	LogLevel    string        `yaml:"logLevel"`
	LogJSON     bool          `yaml:"logJSON"`
	MetricsAddr string        `yaml:"metricsAddr"`
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reconciliation agent",
	Long: `Run the reconciliation agent for this database server.

The agent keeps running until interrupted, executing one reconciliation
pass per interval. All state it needs is re-read every pass, so restarting
the agent at any time is safe.`,
	RunE: runAgent,
}

func init() {
	runCmd.Flags().String("config", "", "YAML configuration file")
	runCmd.Flags().String("server-id", "", "this node's cluster identity (required unless set in the config file)")
	runCmd.Flags().StringSlice("agency", []string{"http://localhost:8531"}, "coordination store endpoints")
	runCmd.Flags().String("engine", "http://localhost:8530", "local storage engine admin endpoint")
	runCmd.Flags().String("data-dir", "/var/lib/maintd", "directory for the pass journal")
	runCmd.Flags().Duration("interval", 5*time.Second, "time between reconciliation passes")
	runCmd.Flags().Int("queue-size", 1024, "action queue buffer size")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
	runCmd.Flags().Bool("log-json", false, "log JSON instead of console output")
	runCmd.Flags().String("metrics-addr", ":9600", "Prometheus metrics listen address (empty to disable)")
}

func loadConfig(cmd *cobra.Command) (*Config, error) {
	cfg := &Config{}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Flags override file values when set (or fill defaults when the file
	// left them empty).
	flags := cmd.Flags()
	if flags.Changed("server-id") || cfg.ServerID == "" {
		cfg.ServerID, _ = flags.GetString("server-id")
	}
	if flags.Changed("agency") || len(cfg.Agency) == 0 {
		cfg.Agency, _ = flags.GetStringSlice("agency")
	}
	if flags.Changed("engine") || cfg.Engine == "" {
		cfg.Engine, _ = flags.GetString("engine")
	}
	if flags.Changed("data-dir") || cfg.DataDir == "" {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("interval") || cfg.Interval == 0 {
		cfg.Interval, _ = flags.GetDuration("interval")
	}
	if flags.Changed("queue-size") || cfg.QueueSize == 0 {
		cfg.QueueSize, _ = flags.GetInt("queue-size")
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-json") {
		cfg.LogJSON, _ = flags.GetBool("log-json")
	}
	if flags.Changed("metrics-addr") || cfg.MetricsAddr == "" {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}

	if cfg.ServerID == "" {
		return nil, fmt.Errorf("server id is required (--server-id or serverId in the config file)")
	}
	return cfg, nil
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Init(log.Config{
		Level:      log.Level(cfg.LogLevel),
		JSONOutput: cfg.LogJSON,
	})
	logger := log.WithServerID(cfg.ServerID)

	journal, err := storage.NewBoltJournal(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open pass journal: %w", err)
	}
	defer journal.Close()

	store := agency.NewClient(cfg.Agency)
	eng := engine.NewClient(cfg.Engine)
	queue := agent.NewQueue(cfg.QueueSize)

	a := agent.New(agent.Config{
		ServerID: cfg.ServerID,
		Interval: cfg.Interval,
	}, store, eng, queue, journal)

	// Drain the queue into the engine's asynchronous action executor.
	go func() {
		for action := range queue.Actions() {
			if err := eng.Execute(cmd.Context(), action); err != nil {
				logger.Error().Err(err).Str("action", action.Name).Msg("failed to submit action")
			}
		}
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	logger.Info().
		Strs("agency", cfg.Agency).
		Str("engine", cfg.Engine).
		Dur("interval", cfg.Interval).
		Msg("starting reconciliation agent")
	a.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down")
	a.Stop()
	queue.Close()
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the outcome of the most recent reconciliation pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		journal, err := storage.NewBoltJournal(dataDir)
		if err != nil {
			return fmt.Errorf("failed to open pass journal: %w", err)
		}
		defer journal.Close()

		rec, err := journal.LastPass()
		if err != nil {
			return err
		}
		if rec == nil {
			fmt.Println("No reconciliation pass recorded yet.")
			return nil
		}
		fmt.Printf("Last pass:        %s\n", rec.Time.Format(time.RFC3339))
		fmt.Printf("Plan version:     %d\n", rec.PlanVersion)
		fmt.Printf("Current version:  %d\n", rec.CurrentVersion)
		fmt.Printf("Actions queued:   %d\n", rec.Actions)
		fmt.Printf("Report ops:       %d\n", rec.ReportOps)
		return nil
	},
}

func init() {
	statusCmd.Flags().String("data-dir", "/var/lib/maintd", "directory holding the pass journal")
}
