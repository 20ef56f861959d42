package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/utils-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func parseUserId(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			db, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := models.InitSchema(ctx, db); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

// NewAddressCommand creates the address command.
func NewAddressCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address <user-id>",
		Short: "Print the wallet address linked to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserId(args[0])
			if err != nil {
				return err
			}

			svc, closeAll, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeAll()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			address, err := svc.GetAddress(log.With().Int64("user_id", id).Logger().WithContext(ctx), id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), address)
			return nil
		},
	}
}

// NewUnlinkCommand creates the unlink command.
func NewUnlinkCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <user-id>",
		Short: "Remove the wallet link of a user",
		Long: `Remove the wallet link of a user.

The wallet row and its location are kept, linking the same address
again reuses them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserId(args[0])
			if err != nil {
				return err
			}

			svc, closeAll, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeAll()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			if err := svc.UnlinkWallet(log.With().Int64("user_id", id).Logger().WithContext(ctx), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "unlinked wallet of user %d\n", id)
			return nil
		},
	}
}

// LinkOptions holds flags for the link command.
type LinkOptions struct {
	*RootOptions
	Sender       int64
	Comment      int64
	Issue        int64
	Repository   int64
	Owner        int64
	Organization int64
}

func (o *LinkOptions) payload() models.EventPayload {
	payload := models.EventPayload{
		Sender:     models.Account{Id: o.Sender},
		Comment:    models.Comment{Id: o.Comment},
		Issue:      models.Issue{Id: o.Issue},
		Repository: models.Repository{Id: o.Repository, Owner: models.Account{Id: o.Owner}},
	}
	if o.Organization > 0 {
		payload.Organization = &models.Organization{Id: o.Organization}
	}
	return payload
}

// NewLinkCommand creates the link command.
func NewLinkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LinkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "link <address>",
		Short: "Link a wallet address as if the sender had commented /wallet <address>",
		Long: `Link a wallet address as if the sender had commented /wallet <address>.

Example:
  wallet-cli link 0xABC --sender 42 --comment 1 --issue 2 --repository 3 --owner 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := opts.payload()
			if errors := utils.Validate(&payload); len(errors) > 0 {
				return fmt.Errorf("invalid %s: %s", errors[0].FailedField, errors[0].Tag)
			}

			svc, closeAll, err := opts.openService()
			if err != nil {
				return err
			}
			defer closeAll()

			ctx, cancel := opts.context(cmd)
			defer cancel()

			ctx = log.With().Int64("sender", opts.Sender).Logger().WithContext(ctx)
			if err := svc.UpsertWalletAddress(ctx, payload, args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "linked %s to user %d\n", args[0], opts.Sender)
			return nil
		},
	}

	cmd.Flags().Int64Var(&opts.Sender, "sender", 0, "user id of the sender (required)")
	cmd.Flags().Int64Var(&opts.Comment, "comment", 0, "comment id (required)")
	cmd.Flags().Int64Var(&opts.Issue, "issue", 0, "issue id (required)")
	cmd.Flags().Int64Var(&opts.Repository, "repository", 0, "repository id (required)")
	cmd.Flags().Int64Var(&opts.Owner, "owner", 0, "repository owner id (required)")
	cmd.Flags().Int64Var(&opts.Organization, "organization", 0, "organization id, defaults to the owner")
	for _, name := range []string{"sender", "comment", "issue", "repository", "owner"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// TokenOptions holds flags for the token command.
type TokenOptions struct {
	*RootOptions
	User string
	Ttl  time.Duration
}

// NewTokenCommand creates the token command.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a token for the dispatcher routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.config.JwtPrivateKey) == 0 {
				return fmt.Errorf("JWT_PRIVATE_KEY is not set")
			}

			token, err := utils.CreateJwt(utils.JwtConfig{
				User:       opts.User,
				ExpireIn:   opts.Ttl,
				Scope:      "wallet",
				Subject:    "dispatch",
				Data:       map[string]string{},
				PrivateKey: utils.ParsePrivateKey(opts.config.JwtPrivateKey),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "user recorded in the token (required)")
	cmd.Flags().DurationVar(&opts.Ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
