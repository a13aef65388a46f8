package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/achievement"
	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/curriculum"
	"github.com/abhisek/lingua/internal/logging"
	"github.com/abhisek/lingua/internal/store"
)

var (
	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "lingua",
	Short:         "Language practice with XP, streaks and spaced repetition",
	Long:          "Lingua runs practice sessions from exercise decks, tracks XP, levels, streaks and achievements, and schedules reviews with SM-2.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		return setup(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Database file (sqlite) or URL (postgres); overrides database.dsn and LINGUA_DB")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./lingua.yaml or $XDG_CONFIG_HOME/lingua/lingua.yaml)")
	rootCmd.PersistentFlags().String("user", "", "Learner id (overrides user.id)")

	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger shared by every command.
func setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	c, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		c.User.ID = u
	}

	l, err := logging.New(logging.Config{Level: c.Log.Level, Format: c.Log.Format})
	if err != nil {
		return err
	}

	cfg, logger = c, l
	return nil
}

// openStore opens the configured database. The --db flag wins, then
// database.dsn, then the default sqlite path.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dsn := cfg.Database.DSN
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		dsn = p
	}

	if cfg.Database.Driver == store.DriverSQLite {
		if dsn == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			dsn = p
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create DB dir: %w", err)
		}
	}

	st, err := store.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.WithField("driver", st.Driver()).Debug("store opened")
	return st, nil
}

func loadCatalog() (*achievement.Catalog, error) {
	if cfg.Achievements.Catalog == "" {
		return achievement.DefaultCatalog(), nil
	}
	c, err := achievement.LoadCatalog(cfg.Achievements.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	return c, nil
}

func loadCurriculum() (*curriculum.Graph, error) {
	if cfg.Curriculum.Path == "" {
		return curriculum.Default(), nil
	}
	g, err := curriculum.LoadFile(cfg.Curriculum.Path)
	if err != nil {
		return nil, fmt.Errorf("load curriculum: %w", err)
	}
	return g, nil
}
