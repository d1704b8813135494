package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stride-app/stride/pkg/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token USER_ID",
	Short: "Mint an access token for a user",
	Long: `Mint a signed access token for the given user id.

The secret must match the one the server runs with, via --secret or
the STRIDE_AUTH_SECRET environment variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

		secret, _ := cmd.Flags().GetString("secret")
		if secret == "" {
			secret = os.Getenv("STRIDE_AUTH_SECRET")
		}
		if secret == "" {
			return fmt.Errorf("--secret or STRIDE_AUTH_SECRET is required")
		}

		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.NewAuthenticator(secret, ttl).Issue(userID)
		if err != nil {
			return fmt.Errorf("failed to issue token: %v", err)
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("secret", "", "Secret for signing the token")
	tokenCmd.Flags().Duration("ttl", 30*24*time.Hour, "Token validity period")
}
