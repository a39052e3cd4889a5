package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/lexicon"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "List the accepted emojis and situations",
		Run:   runLexicon,
	}

	RootCmd.AddCommand(cmd)
}

func runLexicon(cmd *cobra.Command, args []string) {
	printJSON(struct {
		Emojis     []lexicon.EmojiBias     `json:"emojis"`
		Situations []lexicon.SituationBias `json:"situations"`
	}{lexicon.Emojis(), lexicon.Situations()})
}
