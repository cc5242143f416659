package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"bombardier/internal/analysis"
	"bombardier/internal/cmdlog"
	"bombardier/internal/config"
	"bombardier/internal/quality"
	"bombardier/internal/recommend"
	"bombardier/internal/rules"
	"bombardier/internal/theme"
)

func newInitCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("init", func() error {
				if err := config.Save(path, config.Default()); err != nil {
					return err
				}
				abs, _ := filepath.Abs(path)
				fmt.Fprint(cmd.OutOrStdout(), theme.Banner())
				fmt.Fprintln(cmd.OutOrStdout(), "Config written to:", abs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "path", config.DefaultPath, "path to write config")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var file, xUser string
	var limit int
	var noStore bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis on one profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("analyze", func() error {
				ctx := cmd.Context()
				a, err := newApp(ctx, !noStore)
				if err != nil {
					return err
				}
				defer a.Close()

				req, err := a.snapshotFrom(ctx, file, xUser, limit)
				if err != nil {
					return err
				}
				res, err := a.svc.AnalyzeProfile(ctx, req)
				if err != nil {
					return err
				}
				if a.db != nil {
					if _, err := a.db.SaveAnalysis(ctx, time.Now(), req.Platform, req.Username, res); err != nil {
						return err
					}
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "profile snapshot JSON file")
	cmd.Flags().StringVar(&xUser, "x", "", "fetch the profile from X by username")
	cmd.Flags().IntVar(&limit, "limit", 20, "recent posts to fetch with --x")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not persist the analysis")
	return cmd
}

func newBotCmd() *cobra.Command {
	var file, xUser string
	var limit int
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Score bot likelihood for one profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("bot", func() error {
				ctx := cmd.Context()
				a, err := newApp(ctx, false)
				if err != nil {
					return err
				}
				defer a.Close()

				req, err := a.snapshotFrom(ctx, file, xUser, limit)
				if err != nil {
					return err
				}
				res, err := a.svc.DetectBot(ctx, req.ProfileSnapshot)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "profile snapshot JSON file")
	cmd.Flags().StringVar(&xUser, "x", "", "fetch the profile from X by username")
	cmd.Flags().IntVar(&limit, "limit", 20, "recent posts to fetch with --x")
	return cmd
}

func newSentimentCmd() *cobra.Command {
	var text, hint string
	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Score the sentiment of a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("sentiment", func() error {
				a, err := newApp(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer a.Close()
				res, err := a.svc.AnalyzeSentiment(cmd.Context(), text, hint)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to score")
	cmd.Flags().StringVar(&hint, "context", "", "where the text came from")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newInterestsCmd() *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Extract interests and topics from a text",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("interests", func() error {
				a, err := newApp(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer a.Close()
				res, err := a.svc.ExtractInterests(cmd.Context(), text, nil)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to scan")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newRankCmd() *cobra.Command {
	var file string
	var minScore float64
	var maxCount int
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank scorer inputs read from a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("rank", func() error {
				a, err := newApp(cmd.Context(), false)
				if err != nil {
					return err
				}
				defer a.Close()

				var inputs []quality.Input
				if err := readJSON(file, &inputs); err != nil {
					return err
				}
				if !cmd.Flags().Changed("min-score") {
					minScore = a.cfg.Campaign.MinScore
				}
				if !cmd.Flags().Changed("max-count") {
					maxCount = a.cfg.Campaign.MaxCount
				}
				ranked, err := a.svc.RankProfiles(cmd.Context(), inputs, minScore, maxCount)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ranked)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of scorer inputs")
	cmd.Flags().Float64Var(&minScore, "min-score", quality.DefaultMinScore, "minimum overall score")
	cmd.Flags().IntVar(&maxCount, "max-count", quality.DefaultMaxCount, "maximum profiles returned")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCampaignCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Analyze snapshots, plan outreach and record it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("campaign", func() error {
				return runCampaign(cmd, file)
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON array of profile snapshots")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runCampaign(cmd *cobra.Command, file string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var reqs []analysis.ProfileRequest
	if err := readJSON(file, &reqs); err != nil {
		return err
	}
	rule, err := rules.Compile(a.cfg.Campaign.Filter)
	if err != nil {
		return err
	}

	results, err := a.svc.AnalyzeBatch(ctx, reqs)
	if err != nil {
		return err
	}
	now := time.Now()
	inputs := make([]quality.Input, len(reqs))
	for i, req := range reqs {
		if _, err := a.db.SaveAnalysis(ctx, now, req.Platform, req.Username, results[i]); err != nil {
			return err
		}
		inputs[i] = analysis.ScoreInput(req, results[i])
	}

	ranked, err := a.svc.RankProfiles(ctx, inputs, a.cfg.Campaign.MinScore, a.cfg.Campaign.MaxCount)
	if err != nil {
		return err
	}
	planner := &recommend.Planner{
		Store:      a.db,
		Rule:       rule,
		Engagement: a.cfg.Engagement,
		Action:     a.cfg.Campaign.Action,
		Cooldown:   a.cfg.Campaign.Cooldown,
	}
	plan, err := planner.Plan(ctx, ranked)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), plan)
}

func newHistoryCmd() *cobra.Command {
	var minScore float64
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored analyses, best first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdlog.Run("history", func() error {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				db, err := openStore(cfg)
				if err != nil {
					return err
				}
				defer db.Close()

				recs, err := db.TopAnalyses(cmd.Context(), minScore, limit)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, r := range recs {
					q := r.Analysis.QualityScore
					fmt.Fprintf(w, "%s  %s/@%s  overall=%.1f tier=%s %s\n",
						r.CreatedAt.Format(time.RFC3339), r.Platform, r.Username, q.Overall, q.Tier, q.Recommendation)
				}
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum overall score")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows")
	return cmd
}
