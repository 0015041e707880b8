// Package agents holds the per-page agent profiles. The registry is built once at
// startup and only read afterwards.
package agents

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/models"
)

var pageOrder = []models.PageKey{
	models.PageHome,
	models.PageServices,
	models.PageInsurance,
	models.PageContact,
}

func Defaults() []models.AgentProfile {
	return []models.AgentProfile{
		{
			PageKey:      models.PageHome,
			AgentID:      "agent_home_welcome",
			DisplayName:  "Flo",
			Purpose:      "Welcome visitors and point them to insurance or wealth services",
			SystemPrompt: "You are Flo, the welcome assistant. Greet visitors warmly, find out whether they are looking for insurance protection or wealth building, and guide them to the right page.",
			VoiceID:      "21m00Tcm4TlvDq8ikWAM",
			TriggerEvent: models.TriggerPageLoad,
		},
		{
			PageKey:      models.PageServices,
			AgentID:      "agent_services_guide",
			DisplayName:  "Marcus",
			Purpose:      "Explain the service catalog",
			SystemPrompt: "You are Marcus, the services guide. Explain each service in plain language and recommend a consultation when a visitor shows interest.",
			VoiceID:      "TxGEqnHWrfWFTfGW9XjX",
			TriggerEvent: models.TriggerUserScroll,
		},
		{
			PageKey:      models.PageInsurance,
			AgentID:      "agent_insurance_advisor",
			DisplayName:  "Grace",
			Purpose:      "Describe coverage options and offer quotes",
			SystemPrompt: "You are Grace, the insurance advisor. Describe life, health, auto and Medicare coverage and offer to prepare a free quote.",
			VoiceID:      "EXAVITQu4vr4xnSDxMaL",
			TriggerEvent: models.TriggerSectionEnter,
		},
		{
			PageKey:      models.PageContact,
			AgentID:      "agent_contact_concierge",
			DisplayName:  "Jordan",
			Purpose:      "Capture inquiries and schedule consultations",
			SystemPrompt: "You are Jordan, the contact concierge. Collect the visitor's name, email and question, and offer a time to talk.",
			VoiceID:      "pNInz6obpgDQGcFmaJgB",
			TriggerEvent: models.TriggerFormFocus,
		},
	}
}

type Registry struct {
	byPage map[models.PageKey]models.AgentProfile
}

func NewRegistry(profiles []models.AgentProfile) *Registry {
	r := &Registry{byPage: make(map[models.PageKey]models.AgentProfile, len(profiles))}
	for _, p := range profiles {
		r.byPage[p.PageKey] = p
	}
	return r
}

// LoadRegistry starts from the built-in profiles and applies the overrides found in
// the YAML file at path, if any.
func LoadRegistry(path string) (*Registry, error) {
	profiles := Defaults()
	if path == "" {
		return NewRegistry(profiles), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agent profiles: %w", err)
	}
	var file struct {
		Agents []models.AgentProfile `yaml:"agents"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse agent profiles: %w", err)
	}

	index := map[models.PageKey]int{}
	for i, p := range profiles {
		index[p.PageKey] = i
	}
	for _, o := range file.Agents {
		i, ok := index[o.PageKey]
		if !ok {
			return nil, fmt.Errorf("agent profiles: unknown page key %q", o.PageKey)
		}
		if o.TriggerEvent != "" && !validTrigger(o.TriggerEvent) {
			return nil, fmt.Errorf("agent profiles: %s: unknown trigger event %q", o.PageKey, o.TriggerEvent)
		}
		profiles[i] = merge(profiles[i], o)
	}
	return NewRegistry(profiles), nil
}

func validTrigger(t models.TriggerEvent) bool {
	switch t {
	case models.TriggerPageLoad, models.TriggerUserScroll, models.TriggerSectionEnter, models.TriggerFormFocus:
		return true
	}
	return false
}

func merge(base, o models.AgentProfile) models.AgentProfile {
	if o.AgentID != "" {
		base.AgentID = o.AgentID
	}
	if o.DisplayName != "" {
		base.DisplayName = o.DisplayName
	}
	if o.Purpose != "" {
		base.Purpose = o.Purpose
	}
	if o.SystemPrompt != "" {
		base.SystemPrompt = o.SystemPrompt
	}
	if o.VoiceID != "" {
		base.VoiceID = o.VoiceID
	}
	if o.TriggerEvent != "" {
		base.TriggerEvent = o.TriggerEvent
	}
	return base
}

func (r *Registry) Lookup(page models.PageKey) (models.AgentProfile, bool) {
	p, ok := r.byPage[page]
	return p, ok
}

func (r *Registry) All() []models.AgentProfile {
	out := make([]models.AgentProfile, 0, len(r.byPage))
	for _, key := range pageOrder {
		if p, ok := r.byPage[key]; ok {
			out = append(out, p)
		}
	}
	return out
}
