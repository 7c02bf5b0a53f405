package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
	"github.com/havenly/planmatch/internal/logger"
	"github.com/havenly/planmatch/internal/matching"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <plan name>",
	Short: "Show details for the first plan whose name contains the given text",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		lookup(strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func lookup(partial string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	cat := loadCatalog(ctx, config, logger)

	plan, err := matching.Lookup(cat, partial)
	if errors.Is(err, matching.ErrPlanNotFound) {
		logger.Info("exiting", zap.String("reason", "no plan name contains the given text"), zap.String("text", partial))
		return
	}
	if err != nil {
		logger.Fatal("looking up a plan", zap.Error(err))
	}

	printPlan(plan)
}

func printPlan(plan *catalog.Plan) {
	fmt.Printf("%s\n", plan.MarketingName)
	fmt.Printf("  Plan ID:            %s\n", plan.ID)
	fmt.Printf("  Metal Level:        %s\n", orNA(plan.MetalLevel))
	fmt.Printf("  Plan Type:          %s\n", orNA(plan.PlanType))
	fmt.Printf("  Market Coverage:    %s\n", orNA(plan.MarketCoverage))
	fmt.Printf("  Child Only:         %s\n", yesNo(plan.ChildOnly))
	fmt.Printf("  Wellness Program:   %s\n", yesNo(plan.Wellness))
	fmt.Printf("  Disease Management: %s\n", yesNo(plan.DiseaseManagement))
	fmt.Printf("  Maternity Support:  %s\n", yesNo(plan.PregnancyNotice))
	fmt.Printf("  Dental Only:        %s\n", yesNo(plan.DentalOnly))
	if plan.SummaryURL != "" {
		fmt.Printf("  Benefits Summary:   %s\n", plan.SummaryURL)
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
