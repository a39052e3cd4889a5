package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/analyzer"
	"github.com/rcliao/vibe-recommender/internal/lexicon"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a mood into an emotion profile",
		Run:   runAnalyze,
	}
	addMoodFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func addMoodFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("text", "t", "", "Free text describing how you feel")
	cmd.Flags().StringP("emoji", "e", "", "Mood emoji (see 'vibe lexicon')")
	cmd.Flags().Int("happiness", model.DefaultLevel, "Happiness 0-10")
	cmd.Flags().Int("energy", model.DefaultLevel, "Energy 0-10")
	cmd.Flags().StringP("situation", "s", "", "Situation (see 'vibe lexicon')")
}

func moodInput(cmd *cobra.Command) analyzer.Input {
	text, _ := cmd.Flags().GetString("text")
	emoji, _ := cmd.Flags().GetString("emoji")
	happiness, _ := cmd.Flags().GetInt("happiness")
	energy, _ := cmd.Flags().GetInt("energy")
	situation, _ := cmd.Flags().GetString("situation")
	return analyzer.Input{
		Text:      text,
		Emoji:     emoji,
		Happiness: happiness,
		Energy:    energy,
		Situation: situation,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) {
	if _, err := loadConfig(); err != nil {
		exitErr("load config", err)
	}
	in := moodInput(cmd)
	if err := in.Validate(); err != nil {
		exitErr("analyze", err)
	}
	noteUnknown(cmd.Context(), in)
	printJSON(analyzer.Analyze(in))
}

// noteUnknown warns about an emoji or situation outside the lexicon. Analyze
// treats those as neutral.
func noteUnknown(ctx context.Context, in analyzer.Input) {
	if in.Emoji != "" && !lexicon.IsEmoji(in.Emoji) {
		logging.Ctx(ctx).Warn().Str("emoji", in.Emoji).Msg("unknown emoji, treated as neutral")
	}
	if in.Situation != "" && !lexicon.IsSituation(in.Situation) {
		logging.Ctx(ctx).Warn().Str("situation", in.Situation).Msg("unknown situation, treated as neutral")
	}
}
