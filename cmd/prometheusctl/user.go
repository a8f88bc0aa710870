package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prometheusfi/prometheus/internal/api/domain"
	"github.com/prometheusfi/prometheus/internal/api/service"
	"github.com/prometheusfi/prometheus/pkg/mq"
)

func userCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Curate member accounts",
	}
	cmd.AddCommand(userFeatureCmd(opts))
	cmd.AddCommand(userRoleCmd(opts))
	return cmd
}

func userFeatureCmd(opts *options) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "feature <email>",
		Short: "Feature a member in the professionals and fund manager lists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			users := &service.UserService{Store: st, Publisher: mq.Noop{}}
			if err := users.SetFeatured(cmd.Context(), args[0], !off); err != nil {
				return fmt.Errorf("failed to update %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s featured=%t\n", args[0], !off)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the member from the featured lists")

	return cmd
}

func userRoleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "role <email> <user|professional>",
		Short:     "Change a member's role",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(domain.RoleUser), string(domain.RoleProfessional)},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			users := &service.UserService{Store: st, Publisher: mq.Noop{}}
			if err := users.SetRole(cmd.Context(), args[0], domain.Role(args[1])); err != nil {
				return fmt.Errorf("failed to update %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s role=%s\n", args[0], args[1])
			return nil
		},
	}
}
