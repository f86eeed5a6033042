package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"idaas/cmd/internal/app"
	"idaas/cmd/security/token"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "idaas",
		Short:         "Identity service: registration, login and session tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newKeygenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|version|force N",
		Short:     "Apply or roll back the identity schema in IDAAS_DB_SCHEMA",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{"up", "down", "version", "force"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.LoadConfig()
			log := app.NewLogger(cfg.LogLevel, cfg.LogFormat)
			return app.RunMigrate(cmd.Context(), log, cfg, nil, args[0], args[1:])
		},
	}
}

func newKeygenCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Print a fresh hex-encoded token signing key for IDAAS_TOKEN_SIGNING_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := token.NewSigningKey(n)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token.EncodeKey(key))
			return err
		},
	}
	cmd.Flags().IntVar(&n, "bytes", token.MinKeyBytes, "random bytes before hex encoding (min 32)")
	return cmd
}
