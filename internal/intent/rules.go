package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

type responder func(kb *Knowledge, page models.PageKey) models.IntentMatch

// Rule pairs a predicate with a responder. Rules are evaluated in declaration order
// and the first match wins.
type Rule struct {
	Intent  models.IntentName
	Pattern *regexp.Regexp
	respond responder
}

func chatRules() []Rule {
	return []Rule{
		{
			Intent:  models.IntentGreeting,
			Pattern: regexp.MustCompile(`^\s*(hi|hello|hey|howdy|greetings|good (morning|afternoon|evening))\b[\s!.,]*(there)?[\s!.,]*$`),
			respond: respondGreeting,
		},
		{
			Intent:  models.IntentQuote,
			Pattern: regexp.MustCompile(`\b(quote|quotes|pricing|price|cost|how much|rates?)\b`),
			respond: respondQuote,
		},
		{
			Intent:  models.IntentAppointment,
			Pattern: regexp.MustCompile(`\b(appointment|schedule|book|booking|meeting|consultation|call me)\b`),
			respond: respondAppointment,
		},
		{
			Intent:  models.IntentDynasty,
			Pattern: regexp.MustCompile(`\bdynasty\b|generational wealth|\blegacy\b`),
			respond: respondStrategy(models.IntentDynasty),
		},
		{
			Intent:  models.IntentWaterfall,
			Pattern: regexp.MustCompile(`\bwaterfall\b|infinite banking|cash value`),
			respond: respondStrategy(models.IntentWaterfall),
		},
		{
			Intent:  models.IntentAuto,
			Pattern: regexp.MustCompile(`\b(auto|car|cars|vehicle|truck)\b`),
			respond: respondCoverage("Auto Insurance", "Auto coverage protects your vehicle, your passengers and you from liability on the road."),
		},
		{
			Intent:  models.IntentLife,
			Pattern: regexp.MustCompile(`\blife\b|\bterm policy\b|\bwhole life\b`),
			respond: respondCoverage("Life Insurance", "Life insurance replaces income and pays off debts so your family stays secure. We offer term, whole and indexed universal life."),
		},
		{
			Intent:  models.IntentMedicare,
			Pattern: regexp.MustCompile(`\bmedicare\b|\bmedigap\b|\bpart [abcd]\b|\bturning 65\b`),
			respond: respondCoverage("Medicare Plans", "We compare Medicare Advantage, Supplement and Part D plans so you keep your doctors and control costs."),
		},
		{
			Intent:  models.IntentHealth,
			Pattern: regexp.MustCompile(`\bhealth\b|\bmedical\b|\bdental\b`),
			respond: respondCoverage("Health Insurance", "Health plans for individuals, families and small businesses, including dental and vision add-ons."),
		},
		{
			Intent:  models.IntentContact,
			Pattern: regexp.MustCompile(`\b(contact|email|phone|reach|talk to (a|an|someone))\b`),
			respond: respondContact,
		},
		{
			Intent:  models.IntentMusic,
			Pattern: regexp.MustCompile(`\b(music|beats?|studio|recording|artist|mixing|mastering)\b`),
			respond: respondMusic,
		},
		{
			Intent:  models.IntentHelp,
			Pattern: regexp.MustCompile(`\b(help|support|services|what do you (do|offer))\b`),
			respond: respondHelp,
		},
		{
			Intent:  models.IntentThanks,
			Pattern: regexp.MustCompile(`\b(thanks|thank you|thx|appreciate it)\b`),
			respond: respondThanks,
		},
	}
}

func respondGreeting(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent:       models.IntentGreeting,
		ResponseText: "Hi there! 👋 I can help with **insurance**, **wealth building** or **music production**. What brings you here today?",
		StructuredPayload: map[string]any{
			"suggestedServices": kb.ServiceNames(),
		},
	}
}

func respondQuote(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent: models.IntentQuote,
		ResponseText: fmt.Sprintf("Quotes are free and take a few minutes. Tell us what you want to cover, or [start your quote](%s).",
			kb.SchedulingLink),
		StructuredPayload: map[string]any{
			"coverageTypes":   append([]string(nil), kb.CoverageTypes...),
			"recommendedPage": string(models.PageInsurance),
		},
	}
}

func respondAppointment(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent:       models.IntentAppointment,
		ResponseText: fmt.Sprintf("Let's find a time. [Book a free consultation](%s) and pick the slot that suits you.", kb.SchedulingLink),
		StructuredPayload: map[string]any{
			"schedulingLink": kb.SchedulingLink,
		},
	}
}

func respondStrategy(name models.IntentName) responder {
	return func(kb *Knowledge, page models.PageKey) models.IntentMatch {
		s := kb.Strategies[name]
		return models.IntentMatch{
			Intent:       name,
			ResponseText: fmt.Sprintf("**%s**: %s Want to see how it fits your situation?", s.Name, s.Summary),
			StructuredPayload: map[string]any{
				"strategy":        s.Name,
				"recommendedPage": string(models.PageServices),
			},
		}
	}
}

func respondCoverage(coverage, summary string) responder {
	return func(kb *Knowledge, page models.PageKey) models.IntentMatch {
		return models.IntentMatch{
			Intent:       intentForCoverage(coverage),
			ResponseText: fmt.Sprintf("**%s**: %s Would you like a free quote?", coverage, summary),
			StructuredPayload: map[string]any{
				"coverageTypes":   []string{coverage},
				"recommendedPage": string(models.PageInsurance),
			},
		}
	}
}

func intentForCoverage(coverage string) models.IntentName {
	switch coverage {
	case "Auto Insurance":
		return models.IntentAuto
	case "Life Insurance":
		return models.IntentLife
	case "Medicare Plans":
		return models.IntentMedicare
	default:
		return models.IntentHealth
	}
}

func respondContact(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent:       models.IntentContact,
		ResponseText: fmt.Sprintf("You can email us at %s or leave your details on the [contact page](/contact) and we'll reach out.", kb.ContactEmail),
		StructuredPayload: map[string]any{
			"recommendedPage": string(models.PageContact),
		},
	}
}

func respondMusic(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent:       models.IntentMusic,
		ResponseText: "Our studio handles recording, mixing, mastering and artist development. Tell us about your project!",
		StructuredPayload: map[string]any{
			"recommendedPage": string(models.PageServices),
		},
	}
}

func respondHelp(kb *Knowledge, page models.PageKey) models.IntentMatch {
	var b strings.Builder
	b.WriteString("Here's what we can help with:\n")
	for _, s := range kb.Services {
		fmt.Fprintf(&b, "• **%s**: %s\n", s.Name, s.Description)
	}
	return models.IntentMatch{
		Intent:       models.IntentHelp,
		ResponseText: strings.TrimRight(b.String(), "\n"),
		StructuredPayload: map[string]any{
			"suggestedServices": kb.ServiceNames(),
		},
	}
}

func respondThanks(kb *Knowledge, page models.PageKey) models.IntentMatch {
	return models.IntentMatch{
		Intent:       models.IntentThanks,
		ResponseText: "You're welcome! Anything else I can help with?",
	}
}
