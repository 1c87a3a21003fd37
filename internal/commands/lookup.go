package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"scryfallprices/internal/config"
	"scryfallprices/internal/prices"
	"scryfallprices/internal/scryfall"
)

var lookupFields = []string{
	prices.FieldUSD,
	prices.FieldUSDFoil,
	prices.FieldUSDEtched,
	prices.FieldEUR,
	prices.FieldEURFoil,
	prices.FieldTix,
}

func newLookupCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:          "lookup <card>...",
		Short:        "Prints the raw Scryfall prices of the given cards.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := setupLogging(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
				return err
			}

			client := scryfall.NewClient(cfg.ScryfallBaseURL, cfg.UserAgent, cfg.HTTPTimeout)
			defer client.Close()

			repo := prices.NewRepository(client, nil, newPacer(cfg), nil)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())

			header := table.Row{"Card"}
			for _, field := range lookupFields {
				header = append(header, field)
			}
			t.AppendHeader(header)

			for _, card := range args {
				record, err := repo.Get(cmd.Context(), card)
				if err != nil {
					return fmt.Errorf("failed to look up %s: %w", card, err)
				}

				row := table.Row{card}
				for _, field := range lookupFields {
					v, ok := record.Value(field)
					if !ok {
						v = "-"
					}
					row = append(row, v)
				}
				t.AppendRow(row)
			}

			t.SetStyle(table.StyleRounded)
			t.Render()
			return nil
		},
	}
}
