package models

import "time"

type PageKey string

const (
	PageHome      PageKey = "home"
	PageServices  PageKey = "services"
	PageInsurance PageKey = "insurance"
	PageContact   PageKey = "contact"
)

type TriggerEvent string

const (
	TriggerPageLoad     TriggerEvent = "page-load"
	TriggerUserScroll   TriggerEvent = "user-scroll"
	TriggerSectionEnter TriggerEvent = "section-enter"
	TriggerFormFocus    TriggerEvent = "form-focus"
)

const (
	InteractionInitiated = "initiated"
	InteractionCompleted = "completed"

	LeadStatusNew       = "new"
	SubmissionStatusNew = "new"

	AnonymousEmail = "anonymous"
	AnonymousName  = "Anonymous"
)

type AgentProfile struct {
	PageKey      PageKey      `json:"pageKey" yaml:"pageKey"`
	AgentID      string       `json:"agentId" yaml:"agentId"`
	DisplayName  string       `json:"displayName" yaml:"displayName"`
	Purpose      string       `json:"purpose" yaml:"purpose"`
	SystemPrompt string       `json:"systemPrompt" yaml:"systemPrompt"`
	VoiceID      string       `json:"voiceId" yaml:"voiceId"`
	TriggerEvent TriggerEvent `json:"triggerEvent" yaml:"triggerEvent"`
}

type ServiceInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResponsePayload is the structured reply produced by a page handler.
type ResponsePayload struct {
	Type              string        `json:"type"`
	Message           string        `json:"message"`
	NextActions       []string      `json:"nextActions,omitempty"`
	RecommendedPage   string        `json:"recommendedPage,omitempty"`
	SuggestedServices []string      `json:"suggestedServices,omitempty"`
	Services          []ServiceInfo `json:"services,omitempty"`
	CoverageTypes     []string      `json:"coverageTypes,omitempty"`
	QuotePrompt       string        `json:"quotePrompt,omitempty"`
	LeadID            string        `json:"leadId,omitempty"`
	SchedulingLink    string        `json:"schedulingLink,omitempty"`
}

type InteractionRecord struct {
	ID        string           `json:"id"`
	PageKey   PageKey          `json:"pageKey"`
	AgentID   string           `json:"agentId"`
	AgentName string           `json:"agentName"`
	UserInput string           `json:"userInput"`
	UserEmail string           `json:"userEmail"`
	UserName  string           `json:"userName"`
	CreatedAt time.Time        `json:"createdAt"`
	Status    string           `json:"status"`
	Response  *ResponsePayload `json:"response"`
}

type LeadRecord struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Inquiry            string    `json:"inquiry"`
	PageOrigin         PageKey   `json:"pageOrigin"`
	CreatedAt          time.Time `json:"createdAt"`
	Status             string    `json:"status"`
	QualificationScore int       `json:"qualificationScore"`
}

type IntentName string

const (
	IntentGreeting    IntentName = "greeting"
	IntentQuote       IntentName = "quote"
	IntentAppointment IntentName = "appointment"
	IntentDynasty     IntentName = "dynasty"
	IntentWaterfall   IntentName = "waterfall"
	IntentAuto        IntentName = "auto"
	IntentLife        IntentName = "life"
	IntentHealth      IntentName = "health"
	IntentMedicare    IntentName = "medicare"
	IntentContact     IntentName = "contact"
	IntentMusic       IntentName = "music"
	IntentHelp        IntentName = "help"
	IntentThanks      IntentName = "thanks"
	IntentDefault     IntentName = "default"
)

// IntentMatch is never persisted.
type IntentMatch struct {
	Intent            IntentName     `json:"intent"`
	ResponseText      string         `json:"responseText"`
	StructuredPayload map[string]any `json:"payload,omitempty"`
}

type Submission struct {
	ID                string    `json:"id"`
	ServiceType       string    `json:"serviceType"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	ContactPreference string    `json:"contactPreference,omitempty"`
	Message           string    `json:"message,omitempty"`
	SubmittedFrom     string    `json:"submittedFrom,omitempty"`
	RecipientEmail    string    `json:"recipientEmail"`
	EmailSent         bool      `json:"emailSent"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"createdAt"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type InteractionStats struct {
	TotalInteractions int            `json:"totalInteractions"`
	ByPageType        map[string]int `json:"byPageType"`
	ByAgent           map[string]int `json:"byAgent"`
	CompletedCount    int            `json:"completedCount"`
}
