package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/ai"
	"github.com/havenly/planmatch/internal/catalog"
	"github.com/havenly/planmatch/internal/logger"
)

//go:embed prompt.md
var promptTemplate string

const (
	maxCandidates       = 3
	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// keywordMatch maps question keywords to plan feature predicates. A plan is a
// candidate when any keyword present in the question matches it.
var keywordMatch = map[string]func(*catalog.Plan) bool{
	"wellness":  func(p *catalog.Plan) bool { return p.Wellness },
	"maternity": func(p *catalog.Plan) bool { return p.PregnancyNotice },
	"pregnancy": func(p *catalog.Plan) bool { return p.PregnancyNotice },
	"child":     func(p *catalog.Plan) bool { return p.ChildOnly },
	"disease":   func(p *catalog.Plan) bool { return p.DiseaseManagement },
	"mental":    func(p *catalog.Plan) bool { return p.DiseaseManagement },
	"dental":    func(p *catalog.Plan) bool { return p.DentalOnly },
	"ppo":       func(p *catalog.Plan) bool { return strings.EqualFold(p.PlanType, "PPO") },
	"hmo":       func(p *catalog.Plan) bool { return strings.EqualFold(p.PlanType, "HMO") },
}

var metalLevels = []string{"Bronze", "Silver", "Gold", "Platinum"}

// Advisor implements the conversational assistant on top of Gemini. It
// pre-filters the catalog by question keywords, excludes already-shown plan
// names, and asks Gemini to recommend among the remaining candidates.
type Advisor struct {
	generator contentGenerator
	cat       *catalog.Catalog
	logger    *zap.Logger
	maxLogLen int
}

// NewAdvisor builds an Advisor over an immutable catalog snapshot.
func NewAdvisor(generator contentGenerator, cat *catalog.Catalog, log *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Advisor{
		generator: generator,
		cat:       cat,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

var _ ai.Advisor = (*Advisor)(nil)

// Advise answers one free-text question. When no new candidate plans match
// the question, it replies without calling Gemini at all.
func (a *Advisor) Advise(ctx context.Context, question string, excludeNames []string) (*ai.Reply, error) {
	candidates := a.candidates(question, excludeNames)
	if len(candidates) == 0 {
		return &ai.Reply{Text: "I couldn't find any new matching plans. Try asking about wellness, maternity, dental or mental health coverage."}, nil
	}

	prompt := buildPrompt(question, candidates)

	if a.logger != nil {
		a.logger.Debug("gemini advise request",
			zap.Int("candidates", len(candidates)),
			zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
			zap.String("prompt_preview", logger.Truncate(prompt, a.maxLogLen)),
		)
	}

	text, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if a.logger != nil {
		a.logger.Debug("gemini advise response",
			zap.Int("response_length", utf8.RuneCountInString(text)),
			zap.String("response_preview", logger.Truncate(text, a.maxLogLen)),
		)
	}

	names := make([]string, 0, len(candidates))
	for _, plan := range candidates {
		names = append(names, plan.MarketingName)
	}

	return &ai.Reply{Text: text, PlanNames: names}, nil
}

// candidates selects up to maxCandidates plans matching the question's
// keywords, skipping excluded names and deduplicating by marketing name.
func (a *Advisor) candidates(question string, excludeNames []string) []catalog.Plan {
	lower := strings.ToLower(question)

	var predicates []func(*catalog.Plan) bool
	for word, match := range keywordMatch {
		if wordPresent(lower, word) {
			predicates = append(predicates, match)
		}
	}
	if len(predicates) == 0 {
		return nil
	}

	var requestedMetals []string
	for _, metal := range metalLevels {
		if wordPresent(lower, strings.ToLower(metal)) {
			requestedMetals = append(requestedMetals, metal)
		}
	}

	excluded := make(map[string]struct{}, len(excludeNames))
	for _, name := range excludeNames {
		excluded[name] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []catalog.Plan
	for i := range a.cat.Plans {
		plan := &a.cat.Plans[i]
		if plan.MarketingName == "" {
			continue
		}
		if _, skip := excluded[plan.MarketingName]; skip {
			continue
		}
		if _, dup := seen[plan.MarketingName]; dup {
			continue
		}
		if !anyMatch(plan, predicates) {
			continue
		}
		if len(requestedMetals) > 0 && !contains(requestedMetals, plan.MetalLevel) {
			continue
		}

		seen[plan.MarketingName] = struct{}{}
		out = append(out, *plan)
		if len(out) == maxCandidates {
			break
		}
	}

	return out
}

func anyMatch(plan *catalog.Plan, predicates []func(*catalog.Plan) bool) bool {
	for _, match := range predicates {
		if match(plan) {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func wordPresent(text, word string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(text)
}

func buildPrompt(question string, candidates []catalog.Plan) string {
	var block strings.Builder
	for _, plan := range candidates {
		fmt.Fprintf(&block, "**%s**\n", plan.MarketingName)
		fmt.Fprintf(&block, "- Metal Level: %s\n", orNA(plan.MetalLevel))
		fmt.Fprintf(&block, "- Plan Type: %s\n", orNA(plan.PlanType))
		fmt.Fprintf(&block, "- Wellness: %s\n", yesNo(plan.Wellness))
		fmt.Fprintf(&block, "- Disease Mgmt: %s\n", yesNo(plan.DiseaseManagement))
		fmt.Fprintf(&block, "- Maternity Support: %s\n", yesNo(plan.PregnancyNotice))
		block.WriteString("\n")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{QUESTION}}", question)
	return strings.ReplaceAll(prompt, "{{PLANS}}", strings.TrimSpace(block.String()))
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
