// Package intent turns free text into scripted replies. It holds the page handlers
// used by the agent router, the ordered chat rules used by the widget and the lead
// scorer. Everything here is pure: no I/O and no shared mutable state.
package intent

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/apperr"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

type Engine struct {
	kb    *Knowledge
	rules []Rule
}

func NewEngine(kb *Knowledge) *Engine {
	if kb == nil {
		kb = DefaultKnowledge("")
	}
	return &Engine{kb: kb, rules: chatRules()}
}

// HandlePage dispatches a turn to the handler registered for the profile's page.
func (e *Engine) HandlePage(t Turn) (Reply, error) {
	h, ok := pageHandlers[t.Profile.PageKey]
	if !ok {
		return Reply{}, apperr.UnknownPageError{Page: string(t.Profile.PageKey)}
	}
	return h(e.kb, t), nil
}

// Chat classifies input with the ordered rule table. The first matching rule wins;
// unmatched input falls back to the FAQ table and then to a clarification prompt.
func (e *Engine) Chat(input string, page models.PageKey) models.IntentMatch {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower != "" {
		for _, r := range e.rules {
			if r.Pattern.MatchString(lower) {
				return r.respond(e.kb, page)
			}
		}
		if f, ok := e.kb.lookupFAQ(lower); ok {
			return models.IntentMatch{Intent: models.IntentDefault, ResponseText: f.Answer}
		}
	}
	return e.clarify(page)
}

func (e *Engine) clarify(page models.PageKey) models.IntentMatch {
	var topic string
	switch page {
	case models.PageInsurance:
		topic = "life, health, auto or Medicare coverage"
	case models.PageServices:
		topic = "any of our services"
	case models.PageContact:
		topic = "getting in touch with an advisor"
	default:
		topic = "insurance, wealth building or music production"
	}
	return models.IntentMatch{
		Intent:       models.IntentDefault,
		ResponseText: fmt.Sprintf("I'm not sure I caught that. Could you tell me a bit more? I can help with %s.", topic),
		StructuredPayload: map[string]any{
			"suggestedServices": e.kb.ServiceNames(),
		},
	}
}

// Intents lists the rule names in evaluation order.
func (e *Engine) Intents() []models.IntentName {
	out := make([]models.IntentName, 0, len(e.rules)+1)
	for _, r := range e.rules {
		out = append(out, r.Intent)
	}
	return append(out, models.IntentDefault)
}

func containsWord(lower, word string) bool {
	for _, f := range strings.FieldsFunc(lower, notWordRune) {
		if f == word {
			return true
		}
	}
	return false
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
