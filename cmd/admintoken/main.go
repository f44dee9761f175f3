// Command admintoken mints an access token for the /v1/admin routes, signed
// with JWT_SECRET from the environment or .env.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/satvik-sharma-05/movieBooking/internal/utils"
)

var (
	flagTTL  time.Duration
	flagRole string
	flagJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "admintoken <subject>",
	Short: "Mint an admin access token",
	Long: `Mint an HS256 access token for the admin API.

The subject is the operator's identity-provider id.

Examples:
  admintoken user_2abc
  admintoken user_2abc --ttl 15m --json`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().DurationVar(&flagTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.Flags().StringVar(&flagRole, "role", utils.RoleAdmin, "role claim")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "print token and expiry as JSON")
}

func run(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if flagTTL <= 0 {
		return fmt.Errorf("--ttl must be positive, got %s", flagTTL)
	}

	tok, err := utils.NewAccessToken(secret, args[0], flagRole, flagTTL)
	if err != nil {
		return err
	}
	if flagJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(tok)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
