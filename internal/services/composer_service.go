package services

import (
	"fmt"
	"math"
	"net/http"

	"apigw-custom-response/internal/models"

	"github.com/spf13/cast"
)

// DiagnosticBodyPrefix prefixes the body returned when the upstream status is not 200
const DiagnosticBodyPrefix = "custom response, upstream_status is "

// ComposerConfig holds the header rewrite applied to every draft
type ComposerConfig struct {
	HeaderOverrides map[string]string
	HeadersToRemove []string
}

// ComposerService builds response drafts from gateway events
type ComposerService struct {
	headerOverrides map[string]string
	headersToRemove []string
	logger          Logger
	patches         []ResponsePatch
}

// NewComposerService creates a composer. The configuration is copied so later
// changes by the caller never leak into drafts.
func NewComposerService(config *ComposerConfig, logger Logger) (*ComposerService, error) {
	if config == nil {
		return nil, fmt.Errorf("composer config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("composer logger cannot be nil")
	}

	s := &ComposerService{
		headerOverrides: copyHeaders(config.HeaderOverrides),
		headersToRemove: copyNames(config.HeadersToRemove),
		logger:          logger,
	}
	// Status runs last so a failed upstream always wins over an echoed body.
	s.patches = []ResponsePatch{
		s.ApplyHeaderPatch,
		s.ApplyBodyPatch,
		s.ApplyStatusPatch,
	}
	return s, nil
}

// Compose runs the header, body and status patches against a fresh draft.
// It returns nil when the event has no headerParameters.
func (s *ComposerService) Compose(event *models.GatewayEvent) *models.ResponseDraft {
	if !event.HasHeaderParameters() {
		s.logger.Error("gateway event has no headerParameters, skipping custom response")
		return nil
	}

	draft := models.NewResponseDraft()
	for _, patch := range s.patches {
		patch(event, draft)
	}
	return draft
}

// ApplyHeaderPatch replaces the draft's header rewrite with the configured one
func (s *ComposerService) ApplyHeaderPatch(event *models.GatewayEvent, draft *models.ResponseDraft) {
	draft.ReplaceHeaders = copyHeaders(s.headerOverrides)
	draft.RemoveHeaders = copyNames(s.headersToRemove)
}

// ApplyBodyPatch echoes the event body into the draft
func (s *ComposerService) ApplyBodyPatch(event *models.GatewayEvent, draft *models.ResponseDraft) {
	if !event.HasBody() {
		return
	}

	candidate := event.Body
	body, ok := candidate.(string)
	if !ok {
		s.logger.Error(fmt.Sprintf("replace_body must be a string, got %T", candidate))
		return
	}

	draft.SetBody(body, isBase64Encoded(event))
}

// ApplyStatusPatch swaps the draft for a diagnostic response when the upstream did not return 200
func (s *ComposerService) ApplyStatusPatch(event *models.GatewayEvent, draft *models.ResponseDraft) {
	status, ok := event.HeaderParameter(models.HeaderParamStatus)
	if !ok || IsStatusOK(status) {
		return
	}

	notEncoded := false
	draft.ReplaceStatus = http.StatusOK
	draft.SetBody(DiagnosticBodyPrefix+cast.ToString(status), &notEncoded)
}

// IsStatusOK reports whether an upstream status value is numerically 200.
// Numbers and numeric strings compare by value; anything else is not OK.
func IsStatusOK(status interface{}) bool {
	if _, isBool := status.(bool); isBool {
		return false
	}
	code, err := cast.ToFloat64E(status)
	if err != nil || math.IsNaN(code) {
		return false
	}
	return code == http.StatusOK
}

func isBase64Encoded(event *models.GatewayEvent) *bool {
	raw, ok := event.HeaderParameter(models.HeaderParamIsBase64Encoded)
	if !ok {
		return nil
	}
	encoded, err := cast.ToBoolE(raw)
	if err != nil {
		return nil
	}
	return &encoded
}

func copyHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for name, value := range headers {
		out[name] = value
	}
	return out
}

func copyNames(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
