// Command manage runs maintenance tasks against the configured database.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"brightscope/internal/config"
	"brightscope/internal/database"
	"brightscope/internal/email"
	"brightscope/internal/events"
	"brightscope/internal/logging"
	"brightscope/internal/services"
	"brightscope/internal/tokenstore"
	"brightscope/internal/util"
)

type env struct {
	cfg *config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.App)
	db, err := database.Open(cfg.Database, logging.Component(log, "database"))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	if err := database.Close(e.db); err != nil {
		e.log.Error().Err(err).Msg("error closing database")
	}
}

func main() {
	root := &cobra.Command{
		Use:           "manage",
		Short:         "Brightscope maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), createSuperuserCmd(), seedCmd(), purgeTokensCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			e.log.Info().Msg("migrations applied")
			return nil
		},
	}
}

func createSuperuserCmd() *cobra.Command {
	var p services.SuperuserPayload
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an active staff account with admin rights",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			if err := database.Migrate(e.db); err != nil {
				return err
			}

			auth := services.NewAuthService(e.db, util.NewTokenManager(e.cfg.Auth, nil), tokenstore.NewGormBlacklist(e.db),
				email.New(e.cfg.Email, e.log), events.Nop{}, e.cfg, logging.Component(e.log, "auth"))
			user, err := auth.CreateSuperuser(cmd.Context(), &p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %d).\n", user.Email, user.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Email, "email", "", "login email")
	f.StringVar(&p.Name, "name", "", "display name")
	f.StringVar(&p.Phone, "phone", "", "UAE mobile number")
	f.StringVar(&p.Password, "password", "", "initial password")
	for _, name := range []string{"email", "name", "phone", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default contact methods and offices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			if err := database.Migrate(e.db); err != nil {
				return err
			}
			contact := services.NewContactService(e.db, email.New(e.cfg.Email, e.log), events.Nop{}, "", logging.Component(e.log, "contact"))
			if err := contact.Seed(cmd.Context()); err != nil {
				return err
			}
			e.log.Info().Msg("contact data seeded")
			return nil
		},
	}
}

func purgeTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-tokens",
		Short: "Delete blacklisted refresh tokens that have already expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			defer e.close()
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			n, err := tokenstore.NewGormBlacklist(e.db).Purge(ctx, time.Now())
			if err != nil {
				return err
			}
			e.log.Info().Int64("purged", n).Msg("expired blacklist entries removed")
			return nil
		},
	}
}
