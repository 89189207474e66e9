package cmd

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/booking"
	"github.com/rustyeddy/fxbook/config"
	"github.com/rustyeddy/fxbook/logger"
	"github.com/rustyeddy/fxbook/store"
)

var rootCmd = &cobra.Command{
	Use:   "fxbook",
	Short: "An FX spot trade book with an immutable audit trail",
	Long: `Fxbook records FX spot trades in a local SQLite book.

Every booking gets a unique date-scoped reference (FX-YYYYMMDD-NNNN)
and every create or amend writes exactly one immutable audit entry
with full before/after state, committed atomically with the trade.

  fxbook record --pair EUR/USD --direction BUY --amount 1000000 --rate 1.0850
  fxbook update 42 --status CONFIRMED
  fxbook history 42`,
	SilenceUsage: true,
}

var (
	cfgFile    string
	dbPath     string
	actingUser string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite trade book (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&actingUser, "user", "u", "", "acting user recorded on mutations (default: OS user)")
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.LoadFromFile(cfgFile)
	}
	return config.Default(), nil
}

// openService wires config, store, logger and service together. The
// caller must Close the returned store.
func openService() (*booking.Service, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open trade book: %w", err)
	}

	limits, err := cfg.Validation.Limits()
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("validation limits: %w", err)
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	svc := booking.NewService(st, limits, booking.WithLogger(log))
	return svc, st, nil
}

func currentUser() string {
	if actingUser != "" {
		return actingUser
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "system"
}
