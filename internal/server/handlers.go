package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/havenly/planmatch/internal/catalog"
	"github.com/havenly/planmatch/internal/matching"
)

type matchRequest struct {
	AgeBand     string   `json:"age_band" binding:"required"`
	Tobacco     string   `json:"tobacco_preference"`
	Coverage    string   `json:"coverage_type"`
	State       string   `json:"state"`
	Preferences []string `json:"preferences"`
	Limit       int      `json:"limit"`
}

type matchResult struct {
	PlanID             string   `json:"plan_id"`
	MarketingName      string   `json:"marketing_name"`
	MetalLevel         string   `json:"metal_level"`
	PlanType           string   `json:"plan_type"`
	AverageMonthlyRate *float64 `json:"average_monthly_rate,omitempty"`
	MatchScore         int      `json:"match_score"`
	Wellness           bool     `json:"wellness"`
	DiseaseManagement  bool     `json:"disease_management"`
	PregnancyNotice    bool     `json:"pregnancy_notice"`
	DentalOnly         bool     `json:"dental_only"`
}

type chatRequest struct {
	Question     string   `json:"question" binding:"required"`
	ExcludeNames []string `json:"exclude_names"`
}

type chatResponse struct {
	Text      string   `json:"text"`
	PlanNames []string `json:"plan_names"`
}

func (s *Server) handleMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	band, err := matching.ParseAgeBand(req.AgeBand)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tobacco, err := matching.ParseTobacco(req.Tobacco)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coverage, err := matching.ParseCoverage(req.Coverage)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unknown preference labels are dropped, not rejected.
	var prefs []matching.Preference
	for _, label := range req.Preferences {
		if pref, ok := matching.ParsePreference(label); ok {
			prefs = append(prefs, pref)
		} else {
			s.logger.Debug("ignoring unknown preference", zap.String("label", label))
		}
	}

	results, err := matching.Match(s.catalog(), &matching.Request{
		AgeBand:     band,
		Tobacco:     tobacco,
		Coverage:    coverage,
		State:       strings.TrimSpace(req.State),
		Preferences: prefs,
		Limit:       req.Limit,
	}, s.logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]matchResult, 0, len(results))
	for _, r := range results {
		row := matchResult{
			PlanID:            r.Plan.ID,
			MarketingName:     r.Plan.MarketingName,
			MetalLevel:        r.Plan.MetalLevel,
			PlanType:          r.Plan.PlanType,
			MatchScore:        r.Score,
			Wellness:          r.Plan.Wellness,
			DiseaseManagement: r.Plan.DiseaseManagement,
			PregnancyNotice:   r.Plan.PregnancyNotice,
			DentalOnly:        r.Plan.DentalOnly,
		}
		if r.RateKnown {
			rate := r.Rate
			row.AverageMonthlyRate = &rate
		}
		out = append(out, row)
	}

	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (s *Server) handleLookup(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	plan, err := matching.Lookup(s.catalog(), q)
	if errors.Is(err, matching.ErrPlanNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no plan matching " + q})
		return
	}

	c.JSON(http.StatusOK, planDetail(plan))
}

// handleChat forwards the question to the advisor. Advisor failures become a
// user-facing message with an empty plan list; they never fail the request.
func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if s.advisor == nil {
		c.JSON(http.StatusOK, chatResponse{
			Text:      "The AI advisor is not configured on this server.",
			PlanNames: []string{},
		})
		return
	}

	reply, err := s.advisor.Advise(c.Request.Context(), req.Question, req.ExcludeNames)
	if err != nil {
		s.logger.Warn("advisor call failed", zap.Error(err))
		c.JSON(http.StatusOK, chatResponse{
			Text:      "Sorry, the AI advisor is unavailable right now: " + err.Error(),
			PlanNames: []string{},
		})
		return
	}

	names := reply.PlanNames
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, chatResponse{Text: reply.Text, PlanNames: names})
}

func planDetail(plan *catalog.Plan) gin.H {
	return gin.H{
		"plan_id":             plan.ID,
		"marketing_name":      plan.MarketingName,
		"metal_level":         plan.MetalLevel,
		"plan_type":           plan.PlanType,
		"market_coverage":     plan.MarketCoverage,
		"wellness":            plan.Wellness,
		"disease_management":  plan.DiseaseManagement,
		"pregnancy_notice":    plan.PregnancyNotice,
		"dental_only":         plan.DentalOnly,
		"child_only":          plan.ChildOnly,
		"out_of_service_area": plan.OutOfServiceArea,
		"effective_date":      plan.EffectiveDate,
		"expiration_date":     plan.ExpirationDate,
		"summary_url":         plan.SummaryURL,
	}
}
