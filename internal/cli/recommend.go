package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/vibe-recommender/internal/analyzer"
	"github.com/rcliao/vibe-recommender/internal/logging"
	"github.com/rcliao/vibe-recommender/internal/model"
)

type recommendOutput struct {
	Profile model.EmotionProfile `json:"emotion_profile"`
	Items   []model.ScoredMovie  `json:"items"`
	Source  string               `json:"source"`
	Message string               `json:"message,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Analyze a mood and recommend movies for it",
		Run:   runRecommend,
	}
	addMoodFlags(cmd)
	cmd.Flags().IntP("count", "n", 0, "Number of movies (default: recommend.count)")

	RootCmd.AddCommand(cmd)
}

func runRecommend(cmd *cobra.Command, args []string) {
	in := moodInput(cmd)
	if err := in.Validate(); err != nil {
		exitErr("recommend", err)
	}

	a, err := openApp()
	if err != nil {
		exitErr("open", err)
	}
	defer a.store.Close()

	n, _ := cmd.Flags().GetInt("count")
	if n <= 0 {
		n = a.cfg.Recommend.Count
	}

	ctx := logging.ContextWithSessionID(cmd.Context(), a.store.ID())
	ctx = logging.ContextWithNewCorrelationID(ctx)

	noteUnknown(ctx, in)
	profile := analyzer.Analyze(in)
	res := a.recommender.Recommend(ctx, profile, n, nil)

	out := recommendOutput{Profile: profile, Items: res.Items, Source: res.Source}
	if out.Items == nil {
		out.Items = []model.ScoredMovie{}
	}
	if len(out.Items) == 0 {
		out.Message = msgNoContent
	}
	printJSON(out)
}
