package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/menuscout/scout-cli/internal/model"
	"github.com/menuscout/scout-cli/internal/targets"
)

var (
	chainsDataset string
	chainsOut     string
	chainsRemoved string
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Split national chains out of the canonical dataset",
	Long: "Partitions the dataset into an independent-venue file and a removed-chains " +
		"file using the name and domain blocklists. The input dataset is never " +
		"modified in place; review the removed file before adopting the clean one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset := orDefault(chainsDataset, cfg.Paths.Dataset)
		base := strings.TrimSuffix(dataset, ".json")
		out := orDefault(chainsOut, base+".clean.json")
		removedOut := orDefault(chainsRemoved, base+".removed_chains.json")

		venues, err := model.LoadVenues(dataset)
		if err != nil {
			return eris.Wrap(err, "chains: load dataset")
		}

		var kept, removed []model.Venue
		for _, v := range venues {
			if targets.IsChain(v.VenueName, v.Contact.Website) {
				removed = append(removed, v)
			} else {
				kept = append(kept, v)
			}
		}

		if err := model.SaveVenues(out, kept); err != nil {
			return eris.Wrap(err, "chains: save clean dataset")
		}
		if err := model.SaveVenues(removedOut, removed); err != nil {
			return eris.Wrap(err, "chains: save removed dataset")
		}

		fmt.Printf("Kept %d venues → %s\n", len(kept), out)
		fmt.Printf("Removed %d chains → %s\n", len(removed), removedOut)
		for i, v := range removed {
			if i == 10 {
				fmt.Printf("  ... and %d more\n", len(removed)-10)
				break
			}
			fmt.Printf("  - %s\n", v.VenueName)
		}

		zap.L().Info("chains split",
			zap.String("dataset", dataset),
			zap.Int("kept", len(kept)),
			zap.Int("removed", len(removed)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chainsCmd)
	chainsCmd.Flags().StringVar(&chainsDataset, "dataset", "", "canonical dataset path (default from config)")
	chainsCmd.Flags().StringVar(&chainsOut, "out", "", "clean dataset path (default <dataset>.clean.json)")
	chainsCmd.Flags().StringVar(&chainsRemoved, "removed", "", "removed-chains path (default <dataset>.removed_chains.json)")
}
