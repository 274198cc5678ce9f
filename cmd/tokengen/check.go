package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clientauth/client-auth/internal/auth"
)

var checkCmd = &cobra.Command{
	Use:   "check <authorization-header>",
	Short: "Evaluate an Authorization header value step by step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, err := loadTokenService()
		if err != nil {
			return err
		}

		header := args[0]
		out := cmd.OutOrStdout()

		clientID, ok := tokens.ClientIDFromHeader(header)
		if !ok {
			fmt.Fprintln(out, "client_id: <none>")
			return fmt.Errorf("no client id in authorization header")
		}
		fmt.Fprintf(out, "client_id: %s\n", clientID)

		token, _ := auth.BearerToken(header)
		fmt.Fprintf(out, "valid: %t\n", tokens.ValidateToken(token))

		authn, err := tokens.GetAuthentication(token)
		if err != nil {
			return err
		}
		if authn == nil {
			fmt.Fprintln(out, "authorities: <none>")
			return nil
		}
		fmt.Fprintf(out, "principal: %s\nauthorities: %s\n", authn.Principal, strings.Join(authn.Authorities, ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
