package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"hotel_ops/internal/adapters/cli"
	"hotel_ops/internal/adapters/observability"
	redisad "hotel_ops/internal/adapters/redis"
	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
	"hotel_ops/internal/shared"
	"hotel_ops/internal/storage/sqlstore"
)

var migrate bool

var rootCmd = &cobra.Command{
	Use:   "hotelctl <database-name> <port> <username>",
	Short: "Terminal front end for hotel reservations and operations",
	Long: `hotelctl connects to the hotel database and serves the interactive menu.
With DB_DRIVER=sqlite the database name is a file path and port/username are ignored.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&migrate, "migrate", false, "apply the embedded schema before starting")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) != 3 {
		// wrong usage is not an error
		fmt.Fprintf(cmd.OutOrStdout(), "Usage: %s <database-name> <port> <username>\n", os.Args[0])
		return nil
	}
	cfg := shared.Load()

	// operator output owns stdout
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dialect, err := sqlstore.DialectFor(cfg.DBDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("unsupported database driver")
	}
	dsn := sqlstore.SQLiteDSN(args[0])
	if dialect.Name == sqlstore.MySQL.Name {
		dsn = sqlstore.MySQLDSN(args[2], cfg.DBPassword, cfg.DBHost, args[1], args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Connecting to database...")
	db, err := sqlstore.Open(ctx, dialect, dsn)
	if err != nil {
		fmt.Fprintln(out)
		log.Fatal().Err(err).Str("driver", dialect.Name).Msg("unable to connect to database")
	}
	defer func() {
		fmt.Fprint(out, "Disconnecting from database...")
		_ = db.Close()
		fmt.Fprintln(out, "Done")
	}()
	fmt.Fprintln(out, "Done")

	repo := sqlstore.New(db, dialect)
	if migrate || cfg.AutoMigrate {
		if err := repo.Gateway().Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Str("driver", dialect.Name).Msg("schema applied")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, hotel directory is not cached")
		} else {
			cache = rc
		}
	}

	guard := app.NewGuard(repo)
	shell := cli.NewShell(cmd.InOrStdin(), out, cli.Deps{
		Accounts:    app.NewAccountService(repo, cfg.BcryptCost, cfg.LoginPerMinute),
		Engine:      app.NewBookingEngine(repo, app.NewHotelDirectory(repo, cache, cfg.CacheTTL), cfg.NearbyRadius, cfg.RecentLimit),
		Ops:         app.NewOperations(repo, guard, cfg.RecentLimit),
		Guard:       guard,
		Radius:      cfg.NearbyRadius,
		RecentLimit: cfg.RecentLimit,
	})
	if err := shell.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
