package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/logger"
	"github.com/havenly/planmatch/internal/matching"
)

const chatGreeting = "Ask about insurance plans in plain language, for example " +
	"\"I want a plan with wellness programs\". Say \"more <plan name>\" for plan " +
	"details, or \"exit\" to leave."

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the plan advisor",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat() {
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

	advisor, err := newAdvisor(ctx, config, cat, logger)
	if err != nil {
		logger.Fatal("creating the advisor", zap.Error(err))
	}

	fmt.Println(chatGreeting)

	prompt := promptui.Prompt{Label: "You"}

	// Plans already suggested in this session are not suggested again.
	var suggested []string

	for {
		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading a question", zap.Error(err))
		}

		question = strings.TrimSpace(question)
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit", "bye":
			fmt.Println("Take care!")
			return
		}

		if name, ok := detailRequest(question); ok {
			plan, err := matching.Lookup(cat, name)
			if errors.Is(err, matching.ErrPlanNotFound) {
				fmt.Printf("I could not find a plan named %q in the catalog.\n", name)
				continue
			}
			printPlan(plan)
			continue
		}

		reply, err := advisor.Advise(ctx, question, suggested)
		if err != nil {
			logger.Warn("advisor request failed", zap.Error(err))
			fmt.Println("I could not reach the advisor just now. Please try again in a moment.")
			continue
		}

		fmt.Println(reply.Text)
		suggested = append(suggested, reply.PlanNames...)
	}
}

// detailRequest recognizes questions asking for details of a named plan.
func detailRequest(question string) (string, bool) {
	lower := strings.ToLower(question)
	for _, prefix := range []string{"more ", "tell me more about ", "details for ", "details about "} {
		if strings.HasPrefix(lower, prefix) {
			name := strings.TrimSpace(question[len(prefix):])
			if name != "" {
				return name, true
			}
		}
	}
	return "", false
}
