package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"shoken-assist/backend/internal/agent"
	"shoken-assist/backend/internal/config"
	"shoken-assist/backend/internal/logging"
	"shoken-assist/backend/internal/server"
	"shoken-assist/backend/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultUser owns settings when --user is not given
const DefaultUser = "local"

// cli carries the state shared by every subcommand
type cli struct {
	configPath string
	userID     string
	lookup     func(string) (string, bool)

	cfg    *config.Config
	logger *zap.Logger
	store  store.Store
	agent  *agent.RemarkAgent
}

// newRootCmd builds the command tree around c. The caller closes c after Execute.
func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "shoken",
		Short: "Report-card remark assistant",
		Long: "shoken learns a teacher's writing style from past remarks and drafts new " +
			"remarks from short observation memos using the Gemini API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.init()
		},
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&c.userID, "user", DefaultUser, "User whose settings are read and written")

	root.AddCommand(
		newSetKeyCmd(c),
		newSamplesCmd(c),
		newAnalyzeCmd(c),
		newGenerateCmd(c),
		newBatchCmd(c),
		newProfileCmd(c),
		newServeCmd(c),
	)
	return root
}

func (c *cli) init() error {
	var (
		cfg *config.Config
		err error
	)
	if c.lookup != nil {
		cfg, err = config.LoadWithEnv(c.configPath, c.lookup)
	} else {
		cfg, err = config.Load(c.configPath)
	}
	if err != nil {
		return err
	}
	c.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	c.logger = logger.With(zap.String("component", "cli"))
	return nil
}

// open connects the store and builds the agent. The in-memory driver
// would lose everything between invocations, so the CLI uses SQLite instead.
func (c *cli) open(ctx context.Context) (*agent.UserContext, error) {
	if c.store == nil {
		cfg := *c.cfg
		if cfg.Store.Driver == "" || cfg.Store.Driver == store.DriverMemory {
			cfg.Store.Driver = store.DriverSQLite
		}
		st, err := server.OpenStore(ctx, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		c.store = st
		c.agent = server.NewAgent(&cfg, c.logger)
		c.logger.Debug("Store opened", zap.String("driver", cfg.Store.Driver))
	}
	return agent.NewUserContext(c.userID, c.store, c.cfg.Gemini.APIKey), nil
}

func (c *cli) close() {
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Warn("Failed to close store", zap.Error(err))
		}
		c.store = nil
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
