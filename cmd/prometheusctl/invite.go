package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/mq"
)

func inviteCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Manage invites",
	}
	cmd.AddCommand(inviteCreateCmd(opts))
	return cmd
}

func inviteCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <email>",
		Short: "Invite a member and print the invite code",
		Long: `Invite a member by email.

The code is printed once and only its fingerprint is stored. When
RABBITMQ_URL is set the invite.created event is also published so the
mailer can deliver it.

Examples:
  prometheusctl invite create jane@example.com
  prometheusctl --db /data/prometheus.db invite create jane@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var publisher mq.Publisher = mq.Noop{}
			if opts.cfg.RabbitMQURL != "" {
				if publisher, err = mq.Dial(opts.cfg.RabbitMQURL); err != nil {
					return err
				}
			}
			defer publisher.Close()

			auth := &service.AuthService{Store: st, Publisher: publisher, InviteTTL: opts.cfg.InviteTTL}
			code, err := auth.CreateInvite(cmd.Context(), "", args[0])
			if err != nil {
				return fmt.Errorf("failed to create invite: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), code)
			return nil
		},
	}
}
