package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"citizenportal/internal/app"
	"citizenportal/internal/config"
	"citizenportal/internal/domains"
	"citizenportal/internal/httpx"
	"citizenportal/internal/logger"
	"citizenportal/internal/seed"
	"citizenportal/internal/service"
	"citizenportal/internal/tokens"
)

type opener func(ctx context.Context, configPath string) (*app.Stores, *config.Config, error)

func openConfigured(ctx context.Context, configPath string) (*app.Stores, *config.Config, error) {
	if configPath == "" {
		configPath = "./config/local.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Setup(cfg.Env)
	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return stores, cfg, nil
}

func newRootCmd(open opener) *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "portalctl",
		Short:        "Administer the citizen services portal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or ./config/local.yaml)")

	withStores := func(cmd *cobra.Command, fn func(ctx context.Context, stores *app.Stores, cfg *config.Config) error) error {
		path := configPath
		if path == "" {
			path = os.Getenv("CONFIG_PATH")
		}
		stores, cfg, err := open(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer stores.Close()
		return fn(cmd.Context(), stores, cfg)
	}

	root.AddCommand(
		createAdminCmd(withStores),
		setAdminDisabledCmd("disable-admin", "Block an admin from signing in", true, withStores),
		setAdminDisabledCmd("enable-admin", "Let a disabled admin sign in again", false, withStores),
		listAdminsCmd(withStores),
		seedCmd(withStores),
	)
	return root
}

type storeRunner func(cmd *cobra.Command, fn func(ctx context.Context, stores *app.Stores, cfg *config.Config) error) error

func createAdminCmd(run storeRunner) *cobra.Command {
	var in domains.AdminCreate
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := httpx.Validate(in); err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, stores *app.Stores, cfg *config.Config) error {
				issuer := tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
				admin, err := service.NewAuthService(stores.Admins, issuer).CreateAdmin(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", admin.ID, admin.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 8 characters")
	return cmd
}

func setAdminDisabledCmd(use, short string, disabled bool, run storeRunner) *cobra.Command {
	return &cobra.Command{
		Use:   use + " EMAIL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, stores *app.Stores, _ *config.Config) error {
				if err := stores.Admins.SetAdminDisabled(ctx, args[0], disabled); err != nil {
					return err
				}
				state := "enabled"
				if disabled {
					state = "disabled"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state)
				return nil
			})
		},
	}
}

func listAdminsCmd(run storeRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "List admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx context.Context, stores *app.Stores, _ *config.Config) error {
				admins, err := stores.Admins.ListAdmins(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tEMAIL\tNAME\tSTATUS")
				for _, a := range admins {
					status := "active"
					if !a.Active() {
						status = "disabled"
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", a.ID, a.Email, a.FullName, status)
				}
				return w.Flush()
			})
		},
	}
}

func seedCmd(run storeRunner) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo content and tickets from a fixtures file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			return run(cmd, func(ctx context.Context, stores *app.Stores, _ *config.Config) error {
				res, err := fixtures.Apply(ctx,
					service.NewContentService(stores.Content, nil),
					service.NewTicketService(stores.Tickets, nil),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, published %d, tickets %d\n", res.Created, res.Published, res.Tickets)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "./fixtures/seed.yaml", "fixtures file")
	return cmd
}
