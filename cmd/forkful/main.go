package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/forkful/forkful/server"
	"github.com/forkful/forkful/server/profile"
	"github.com/forkful/forkful/store"
	"github.com/forkful/forkful/store/db/mysql"
	"github.com/forkful/forkful/store/db/postgres"
	"github.com/forkful/forkful/store/db/sqlite"
)

const greetingBanner = `
🍴 forkful — meal planning assistant
`

var rootCmd = &cobra.Command{
	Use:   "forkful",
	Short: "Meal planning assistant with a tool-calling chat engine",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		p, err := profile.GetProfile()
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		driver, err := newDBDriver(p)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		st := store.New(driver)
		if err := st.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		s, err := server.NewServer(ctx, p, st)
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Print(greetingBanner)
		if err := s.Start(ctx); err != nil {
			slog.Error("server stopped", "err", err)
		}
		<-ctx.Done()
		return nil
	},
}

// newDBDriver picks the store backend from the profile.
func newDBDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "mysql":
		return mysql.NewDB(p.DSN)
	case "postgres":
		return postgres.NewDB(p.DSN)
	default:
		return sqlite.NewDB(p.DSN)
	}
}

func init() {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	flags := rootCmd.PersistentFlags()
	flags.String("mode", "dev", `server mode: "prod" or "dev"`)
	flags.String("addr", "", "address to bind, empty for all interfaces")
	flags.Int("port", 8081, "port to bind")
	flags.String("data", ".", "directory for local state")
	flags.String("driver", "sqlite", `database driver: "sqlite", "mysql" or "postgres"`)
	flags.String("dsn", "", "database connection string (required for mysql/postgres)")
	flags.String("secret", "forkful", "secret for signing access tokens")
	flags.String("anthropic-api-key", "", "completion API key (falls back to ANTHROPIC_API_KEY)")
	flags.String("anthropic-model", "", "completion model override")
	flags.Duration("model-timeout", 45*time.Second, "timeout for one model invocation")

	for _, name := range []string{"mode", "addr", "port", "data", "driver", "dsn", "secret", "anthropic-api-key", "anthropic-model", "model-timeout"} {
		if err := viper.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("forkful")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
