package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/integrations/cbr"
	"github.com/Dan9191/cashflow-service/internal/models"
	"github.com/Dan9191/cashflow-service/internal/repository"
	"github.com/Dan9191/cashflow-service/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "cashflowctl",
	Short: "Inspect recurring bills and cash-flow forecasts",
	Long: `cashflowctl runs the same detection and forecast pipeline as the API
against the ledger database, or against an in-memory demo ledger with
--memory --seed. Configuration is read from the same environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64("user", 0, "User ID to analyse")
	rootCmd.PersistentFlags().Bool("memory", false, "Use the in-memory store instead of Postgres")
	rootCmd.PersistentFlags().Bool("seed", false, "Load the demo ledger into the in-memory store")
}

// Execute runs the command line with the given arguments
func Execute(args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// session is a service wired for one command invocation
type session struct {
	svc    *service.Service
	userID int64
	close  func()
}

func newSession(cmd *cobra.Command) (*session, error) {
	userID, _ := cmd.Flags().GetInt64("user")
	useMemory, _ := cmd.Flags().GetBool("memory")
	seed, _ := cmd.Flags().GetBool("seed")
	if seed && !useMemory {
		return nil, models.InputErrorf("--seed requires --memory")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	s := &session{userID: userID, close: func() {}}
	var store repository.Store
	if useMemory || cfg.UseMemoryStore {
		mem := repository.NewMemoryStore()
		if seed {
			repository.SeedDemo(mem, time.Now())
		}
		store = mem
	} else {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.PingContext(cmd.Context()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store = repository.NewRepository(db)
		s.close = func() { db.Close() }
	}

	s.svc = service.NewService(store, cbr.NewCBRClient(cfg, logger), logger, cfg)
	return s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
