package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clientauth/client-auth/internal/auth"
	"github.com/clientauth/client-auth/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "tokengen",
	Short:        "Issue and inspect client tokens",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadTokenService builds a TokenService from the same env the API reads.
func loadTokenService() (*auth.TokenService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return auth.NewTokenService(auth.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTTL(),
		RefreshTTL: cfg.Auth.RefreshTTL(),
	})
}
