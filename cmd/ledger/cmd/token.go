package cmd

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/punch-ledger-go/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <clerk-id>",
	Short: "Issue an API access token for a clerk",
	Long: `Signs an access token for the ledger API with JWT_SECRET_KEY. The token
expires after JWT_ACCESS_EXPIRATION_TIME.

Example:
  curl -H "Authorization: Bearer $(ledger token payroll-01)" localhost:8080/api/v1/shifts`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(args[0])
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", time.Unix(expiresAt, 0).Format(time.RFC3339))
	return nil
}
