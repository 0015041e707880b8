package intent

import "github.com/Flofactionllc/flofaction-website-sub000/internal/models"

type Strategy struct {
	Name    string
	Summary string
}

type FAQ struct {
	Keywords []string
	Answer   string
}

// Knowledge is the single catalog shared by the page handlers and the chat rules.
type Knowledge struct {
	Services       []models.ServiceInfo
	CoverageTypes  []string
	Strategies     map[models.IntentName]Strategy
	FAQs           []FAQ
	SchedulingLink string
	ContactEmail   string
}

func DefaultKnowledge(schedulingLink string) *Knowledge {
	if schedulingLink == "" {
		schedulingLink = "/book"
	}
	return &Knowledge{
		Services: []models.ServiceInfo{
			{
				Key:         "insurance",
				Name:        "Insurance Solutions",
				Description: "Life, health, auto and Medicare coverage matched to your family and budget.",
			},
			{
				Key:         "wealth",
				Name:        "Wealth Building Strategies",
				Description: "Cash-value and trust strategies that grow, protect and pass on wealth.",
			},
			{
				Key:         "business",
				Name:        "Business Consulting",
				Description: "Entity setup, key-person coverage and benefits planning for owners.",
			},
			{
				Key:         "music",
				Name:        "Music Production",
				Description: "Recording, mixing, mastering and artist development in our studio.",
			},
		},
		CoverageTypes: []string{
			"Life Insurance",
			"Health Insurance",
			"Auto Insurance",
			"Medicare Plans",
		},
		Strategies: map[models.IntentName]Strategy{
			models.IntentDynasty: {
				Name:    "Dynasty Trust",
				Summary: "A dynasty trust holds assets for several generations, shielding them from estate taxes and creditors while your family benefits from the growth.",
			},
			models.IntentWaterfall: {
				Name:    "Waterfall Strategy",
				Summary: "The waterfall strategy repositions existing savings into a cash-value life policy so the money keeps compounding and passes to heirs tax-free.",
			},
		},
		FAQs: []FAQ{
			{
				Keywords: []string{"hours", "open", "available"},
				Answer:   "We are available Monday through Friday, 9am to 6pm, and by appointment on Saturdays.",
			},
			{
				Keywords: []string{"licensed", "license", "state"},
				Answer:   "Our advisors are licensed in multiple states. Tell us where you live and we will confirm coverage.",
			},
			{
				Keywords: []string{"free", "fee", "charge"},
				Answer:   "Consultations and quotes are always free, with no obligation.",
			},
			{
				Keywords: []string{"location", "where", "office"},
				Answer:   "We work with clients virtually across the country, so you can meet us from anywhere.",
			},
		},
		SchedulingLink: schedulingLink,
		ContactEmail:   "info@flofaction.com",
	}
}

func (k *Knowledge) ServiceNames() []string {
	out := make([]string, 0, len(k.Services))
	for _, s := range k.Services {
		out = append(out, s.Name)
	}
	return out
}

func (k *Knowledge) lookupFAQ(lower string) (FAQ, bool) {
	for _, f := range k.FAQs {
		for _, kw := range f.Keywords {
			if containsWord(lower, kw) {
				return f, true
			}
		}
	}
	return FAQ{}, false
}
