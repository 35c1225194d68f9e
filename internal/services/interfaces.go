package services

import (
	"apigw-custom-response/internal/models"
)

// Logger is the logging capability services need. logrus.FieldLogger satisfies it.
type Logger interface {
	Error(args ...interface{})
}

// ResponseComposer turns a gateway event into a response draft.
// A nil draft means the gateway should pass the upstream response through unchanged.
type ResponseComposer interface {
	Compose(event *models.GatewayEvent) *models.ResponseDraft
}

// ResponsePatch is a single transform step applied to a draft in place
type ResponsePatch func(event *models.GatewayEvent, draft *models.ResponseDraft)
