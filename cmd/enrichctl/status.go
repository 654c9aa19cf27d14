package main

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statusUser string

var statusCmd = &cobra.Command{
	Use:   "status <contact-id>",
	Short: "Show provider statuses and eligibility of one contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnrichment(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		status, err := env.Service.ContactStatus(cmd.Context(), statusUser, args[0])
		if err != nil {
			return eris.Wrapf(err, "status: contact %s", args[0])
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusUser, "user", "", "owner id of the contact")
	_ = statusCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(statusCmd)
}
