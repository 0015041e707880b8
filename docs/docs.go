package docs

import "github.com/swaggo/swag"

const docTemplate = `{
  "swagger": "2.0",
  "info": {
    "title": "Website Backend",
    "description": "Page agents, intake routing and contact capture for the website",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/agent/interact": {"post": {"tags": ["agent"], "summary": "Agent interaction", "consumes": ["application/json"], "produces": ["application/json"]}},
    "/agent/stats": {"post": {"tags": ["agent"], "summary": "Interaction stats", "produces": ["application/json"]}},
    "/agent/chat": {"post": {"tags": ["agent"], "summary": "Widget chat", "consumes": ["application/json"], "produces": ["application/json"]}},
    "/agent/profiles": {"get": {"tags": ["agent"], "summary": "Agent profiles", "produces": ["application/json"]}},
    "/agent/profiles/{pageType}": {"get": {"tags": ["agent"], "summary": "Agent bootstrap", "produces": ["application/json"]}},
    "/agent/speak": {"post": {"tags": ["speech"], "summary": "Text to speech", "consumes": ["application/json"], "produces": ["audio/mpeg"]}},
    "/agent/transcribe": {"post": {"tags": ["speech"], "summary": "Speech to text", "consumes": ["multipart/form-data"], "produces": ["application/json"]}},
    "/intake/submit": {"post": {"tags": ["forms"], "summary": "Intake form", "consumes": ["application/json"], "produces": ["application/json"]}},
    "/contact": {"post": {"tags": ["forms"], "summary": "Contact form", "consumes": ["application/json"], "produces": ["application/json"]}}
  }
}`

func init() {
	swag.Register(swag.Name, &s{})
}

type s struct{}

func (s *s) ReadDoc() string {
	return docTemplate
}
