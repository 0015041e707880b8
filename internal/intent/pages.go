package intent

import (
	"fmt"
	"strings"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

// Turn is one user message addressed to a page agent.
type Turn struct {
	Input     string
	Profile   models.AgentProfile
	UserName  string
	UserEmail string
}

// Reply is what a page handler produces. Lead is set only by the contact handler
// and is persisted by the caller.
type Reply struct {
	Payload models.ResponsePayload
	Lead    *models.LeadRecord
}

type pageHandler func(kb *Knowledge, t Turn) Reply

var pageHandlers = map[models.PageKey]pageHandler{
	models.PageHome:      handleHome,
	models.PageServices:  handleServices,
	models.PageInsurance: handleInsurance,
	models.PageContact:   handleContact,
}

var (
	insuranceKeywords = []string{"insurance", "coverage"}
	wealthKeywords    = []string{"wealth", "investment", "planning"}
)

func handleHome(kb *Knowledge, t Turn) Reply {
	lower := strings.ToLower(t.Input)
	name := t.Profile.DisplayName

	switch {
	case containsAny(lower, insuranceKeywords):
		return Reply{Payload: models.ResponsePayload{
			Type:              "recommendation",
			Message:           fmt.Sprintf("%s here. It sounds like you want to protect what matters. Our insurance page walks through every option.", name),
			RecommendedPage:   string(models.PageInsurance),
			SuggestedServices: append([]string(nil), kb.CoverageTypes...),
		}}
	case containsAny(lower, wealthKeywords):
		return Reply{Payload: models.ResponsePayload{
			Type:              "recommendation",
			Message:           fmt.Sprintf("%s here. Growing and protecting wealth is what we do best. Take a look at our services.", name),
			RecommendedPage:   string(models.PageServices),
			SuggestedServices: kb.ServiceNames(),
		}}
	default:
		return Reply{Payload: models.ResponsePayload{
			Type:    "welcome",
			Message: fmt.Sprintf("Welcome! I'm %s. How can I help you today?", name),
			NextActions: []string{
				"Explore insurance coverage",
				"Learn about wealth building",
				"Schedule a free consultation",
			},
		}}
	}
}

func handleServices(kb *Knowledge, t Turn) Reply {
	services := append([]models.ServiceInfo(nil), kb.Services...)
	return Reply{Payload: models.ResponsePayload{
		Type:     "catalog",
		Message:  fmt.Sprintf("I'm %s. Here is everything we offer:", t.Profile.DisplayName),
		Services: services,
		NextActions: []string{
			"Schedule a free consultation",
		},
	}}
}

func handleInsurance(kb *Knowledge, t Turn) Reply {
	return Reply{Payload: models.ResponsePayload{
		Type:          "coverage",
		Message:       fmt.Sprintf("I'm %s. We offer these types of coverage:", t.Profile.DisplayName),
		CoverageTypes: append([]string(nil), kb.CoverageTypes...),
		QuotePrompt:   "Would you like a free quote?",
		NextActions:   []string{"Get a free quote"},
	}}
}

func handleContact(kb *Knowledge, t Turn) Reply {
	lead := &models.LeadRecord{
		Name:               t.UserName,
		Email:              t.UserEmail,
		Inquiry:            t.Input,
		PageOrigin:         models.PageContact,
		Status:             models.LeadStatusNew,
		QualificationScore: ScoreLead(t.Input),
	}
	return Reply{
		Payload: models.ResponsePayload{
			Type:           "lead_captured",
			Message:        fmt.Sprintf("Thank you, %s! We received your message and an advisor will reach out shortly. You can also pick a time that works for you.", t.UserName),
			SchedulingLink: kb.SchedulingLink,
			NextActions:    []string{"Schedule a call"},
		},
		Lead: lead,
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
