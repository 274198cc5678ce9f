package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clientauth/client-auth/internal/auth"
	"github.com/clientauth/client-auth/internal/domain"
)

type cliIdentity string

func (c cliIdentity) GetClientID() string { return string(c) }

var issueFlags struct {
	clientID  string
	category  string
	authority string
}

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Sign a token for a client id",
	RunE: func(cmd *cobra.Command, _ []string) error {
		category := domain.TokenCategory(issueFlags.category)
		if !category.Valid() {
			return fmt.Errorf("unknown category %q: want access or refresh", issueFlags.category)
		}

		tokens, err := loadTokenService()
		if err != nil {
			return err
		}

		var extra map[string]any
		if issueFlags.authority != "" {
			extra = map[string]any{auth.ClaimAuthority: issueFlags.authority}
		}
		token, exp, err := tokens.IssueToken(cliIdentity(issueFlags.clientID), category, extra)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", exp.UTC().Format(time.RFC3339))
		return nil
	},
}

func init() {
	issueCmd.Flags().StringVar(&issueFlags.clientID, "client-id", "", "client identifier to embed (required)")
	issueCmd.Flags().StringVar(&issueFlags.category, "category", string(domain.TokenCategoryAccess), "access or refresh")
	issueCmd.Flags().StringVar(&issueFlags.authority, "auth", "", "authority claim, e.g. ROLE_ADMIN")
	_ = issueCmd.MarkFlagRequired("client-id")
	rootCmd.AddCommand(issueCmd)
}
