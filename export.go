package main

import (
	"fmt"
	"io"
	"os"

	"rsvp_server/config"
	"rsvp_server/services"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type exportOptions struct {
	PartyID string
	Out     string
}

func newExportCommand(cfg *config.Config) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a party's RSVP responses to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, *cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.PartyID, "party", "", "party identifier (required)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", `output file, "-" for stdout (default RSVP_List_{party}.csv)`)
	_ = cmd.MarkFlagRequired("party")

	return cmd
}

func runExport(cmd *cobra.Command, cfg config.Config, opts *exportOptions) error {
	store, err := services.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	loc, err := cfg.ExportLocation()
	if err != nil {
		return err
	}
	admin := services.NewAdminService(store, loc)

	out := opts.Out
	if out == "" {
		out = services.ExportFileName(opts.PartyID)
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	rows, err := admin.ExportCSV(cmd.Context(), opts.PartyID, w)
	if err != nil {
		if out != "-" {
			os.Remove(out)
		}
		return err
	}

	log.Info().Str("partyId", opts.PartyID).Str("file", out).Int("rows", rows).Msg("export written")
	return nil
}
