package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/logger"
	"github.com/havenly/planmatch/internal/matching"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match and rank insurance plans for the given profile",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("age-band", "a", "", "age band: 18-25, 26-35, 36-45, 46-60 or 61-64 (required)")
	matchCmd.Flags().StringP("tobacco", "t", "no", "tobacco use: no, yes or prefer-not-to-say")
	matchCmd.Flags().StringP("coverage", "c", "individual", "coverage type: individual, family or child-only")
	matchCmd.Flags().StringP("state", "s", matching.StateAny, "two-letter state code, or Any for no restriction")
	matchCmd.Flags().StringSliceP("prefer", "p", nil, "plan features to prefer: wellness, maternity, mental-health, dental")
	matchCmd.Flags().IntP("limit", "n", matching.DefaultLimit, "maximum number of results")

	matchCmd.MarkFlagRequired("age-band")
}

// match runs one matching request from flags and prints the ranked results.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	req, err := requestFromFlags(cmd, logger)
	if err != nil {
		logger.Fatal("invalid request", zap.Error(err))
	}

	cat := loadCatalog(ctx, config, logger)

	results, err := matching.Match(cat, req, logger)
	if err != nil {
		logger.Fatal("matching failed", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting", zap.String("reason", "no plans matched the request"))
		return
	}

	printResults(results)
}

func requestFromFlags(cmd *cobra.Command, logger *zap.Logger) (*matching.Request, error) {
	band, err := matching.ParseAgeBand(cmd.Flag("age-band").Value.String())
	if err != nil {
		return nil, err
	}

	tobacco, err := matching.ParseTobacco(cmd.Flag("tobacco").Value.String())
	if err != nil {
		return nil, err
	}

	coverage, err := matching.ParseCoverage(cmd.Flag("coverage").Value.String())
	if err != nil {
		return nil, err
	}

	labels, err := cmd.Flags().GetStringSlice("prefer")
	if err != nil {
		return nil, err
	}

	prefs := make([]matching.Preference, 0, len(labels))
	for _, label := range labels {
		pref, ok := matching.ParsePreference(label)
		if !ok {
			logger.Warn("ignoring unknown preference", zap.String("preference", label))
			continue
		}
		prefs = append(prefs, pref)
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}

	return &matching.Request{
		AgeBand:     band,
		Tobacco:     tobacco,
		Coverage:    coverage,
		State:       strings.TrimSpace(cmd.Flag("state").Value.String()),
		Preferences: prefs,
		Limit:       limit,
	}, nil
}

func printResults(results []matching.Result) {
	for i, res := range results {
		rate := "rate unknown"
		if res.RateKnown {
			rate = fmt.Sprintf("$%.2f/mo", res.Rate)
		}
		fmt.Printf("%d. %s [%s %s] %s (score %d)\n",
			i+1, res.Plan.MarketingName, res.Plan.MetalLevel, res.Plan.PlanType, rate, res.Score)
	}
}
