package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clientauth/client-auth/internal/auth"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <token>",
	Short: "Verify a token and print its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := loadTokenService()
		if err != nil {
			return err
		}

		status, claims := tokens.Inspect(args[0])
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "status: %s\n", status)
		if status != auth.TokenValid {
			return fmt.Errorf("token %s", status)
		}

		pretty, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(pretty))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
