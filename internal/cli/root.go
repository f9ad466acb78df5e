package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/gymtrainer/internal"
	"github.com/2beens/gymtrainer/internal/config"
	"github.com/2beens/gymtrainer/internal/logging"
	"github.com/2beens/gymtrainer/pkg"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	env        string
	configPath string
	dayID      string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "trainer",
		Short: "Guided workout sessions for one training day",
		Long: `trainer walks you through the exercises of a training day: it shows the
current set, runs the rest countdown between sets and keeps track of the day's progress.
Optionally it serves a read-only status api and prometheus metrics.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrainer(cmd, opts)
		},
	}
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("trainer version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	rootCmd.Flags().StringVar(&opts.dayID, "day", "", "training day id, overrides day_id from the config")

	rootCmd.AddCommand(newOverviewCmd(opts))
	rootCmd.AddCommand(newValidateCmd(opts))
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.env, opts.configPath)
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: internal.ServiceName,
	})
	log.Debugf("---->> running in [%s] environment, config [%s]", opts.env, opts.configPath)
	return cfg, nil
}

func dayID(cfg *config.Config, override string) string {
	if override != "" {
		return override
	}
	return cfg.DayID
}

func runTrainer(cmd *cobra.Command, opts *rootOptions) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	defer func() {
		if ok := sentry.Flush(2 * time.Second); cfg.SentryEnabled {
			log.Debugf("sentry flush ok: %t", ok)
		}
	}()

	if versionInfo, err := tryGetLastCommitHash(); err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.NewApp(ctx, internal.NewAppParams{Config: cfg})
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}
	defer func() {
		if closeErr := app.Close(context.Background()); closeErr != nil {
			log.Errorf("close app: %s", closeErr)
		}
	}()

	day, err := app.LoadDay(ctx, dayID(cfg, opts.dayID))
	if err != nil {
		return err
	}

	console := app.NewConsole(day, cmd.OutOrStdout())
	app.ServeStatus(console)

	if err := console.Run(ctx, cmd.InOrStdin()); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	log.Infof("training day [%s] left", day.ID)
	return nil
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
