package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/medcare/health-portal/internal/api"
	"github.com/medcare/health-portal/internal/api/handler"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
	"github.com/medcare/health-portal/internal/core/service"
	mongodb "github.com/medcare/health-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/medcare/health-portal/internal/infrastructure/db/redis"
	"github.com/medcare/health-portal/internal/infrastructure/queue"
	"github.com/medcare/health-portal/internal/pkg/config"
	"github.com/medcare/health-portal/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "portal",
		Short:        "Health portal API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())
	rootCmd.AddCommand(adminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			return withDatabase(cmd.Context(), cfg, func(db *mongo.Database) error {
				if err := mongodb.EnsureIndexes(cmd.Context(), db); err != nil {
					return err
				}
				log.Info().Msg("indexes created")
				return nil
			})
		},
	}
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin overrides",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "grant <subject-id>",
		Short: "Grant admin privileges to a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmins(cmd.Context(), func(admins ports.AdminStore, log zerolog.Logger) error {
				if err := admins.Create(cmd.Context(), &domain.Admin{ID: args[0], CreatedAt: time.Now().UTC()}); err != nil {
					return err
				}
				log.Info().Str("subject_id", args[0]).Msg("admin granted")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <subject-id>",
		Short: "Revoke admin privileges from a subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmins(cmd.Context(), func(admins ports.AdminStore, log zerolog.Logger) error {
				if err := admins.DeleteByID(cmd.Context(), args[0]); err != nil {
					return err
				}
				log.Info().Str("subject_id", args[0]).Msg("admin revoked")
				return nil
			})
		},
	})

	tokenCmd := &cobra.Command{
		Use:   "token <subject-id> <national-id>",
		Short: "Issue an identity token for a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			role, _ := cmd.Flags().GetString("role")
			if _, err := domain.ParseRoleName(role); err != nil {
				return fmt.Errorf("role %q: %w", role, err)
			}
			signed, _, err := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(args[0], args[1], role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	tokenCmd.Flags().String("role", "", "role name to embed in the token")
	cmd.AddCommand(tokenCmd)

	return cmd
}

func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "health-portal",
	})
	return cfg, log, nil
}

func withDatabase(ctx context.Context, cfg *config.Config, fn func(db *mongo.Database) error) error {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return fn(db)
}

func withAdmins(ctx context.Context, fn func(admins ports.AdminStore, log zerolog.Logger) error) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	return withDatabase(ctx, cfg, func(db *mongo.Database) error {
		return fn(mongodb.NewAdminRepository(db), log)
	})
}

func runServer(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to mongodb")
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Error().Err(err).Msg("failed to ensure indexes")
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:    cfg.Redis.Addr,
		DB:      cfg.Redis.DB,
		Timeout: cfg.Redis.Timeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to redis")
		return err
	}
	defer func() { _ = rdb.Close() }()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Dependencies ---
	users := mongodb.NewUserRepository(db)
	admins := mongodb.NewAdminRepository(db)
	roleRepos := make([]ports.RoleRepository, 0, len(domain.RoleKinds))
	for _, repo := range mongodb.NewRoleRepositories(db) {
		roleRepos = append(roleRepos, repo)
	}
	revocation := redisdb.NewRevocationStore(rdb)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(
		cfg.Audit.Workers,
		cfg.Audit.Buffer,
		service.NewAuditService(mongodb.NewAuditRepository(db), logger.Component("audit")),
		logger.Component("dispatcher"),
	)
	dispatcher.Start(auditCtx)

	e := api.NewRouter(api.Deps{
		Log:        log,
		Auth:       service.NewAuthService(users, roleRepos, tokens, revocation, logger.Component("auth")),
		Roles:      service.NewRoleRegistry(users, roleRepos, logger.Component("roles")),
		Tokens:     tokens,
		Revocation: revocation,
		Resolver:   service.NewAccessResolver(users, admins, logger.Component("access")),
		Recorder:   dispatcher,
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	dispatcher.Shutdown()
	stopAudit()
	log.Info().Msg("server stopped")
	return nil
}
