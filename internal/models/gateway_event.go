package models

// Header parameter keys the gateway fills in before invoking a custom response function
const (
	HeaderParamStatus          = "status"
	HeaderParamIsBase64Encoded = "is_base64_encoded"
)

// GatewayEvent is the payload an API gateway passes to a custom response function.
// Values are kept loosely typed since gateways send status both as a number and as a string.
type GatewayEvent struct {
	HeaderParameters map[string]interface{} `json:"headerParameters"`
	Body             interface{}            `json:"body,omitempty"`
}

// HasHeaderParameters reports whether the event carries a headerParameters mapping
func (e *GatewayEvent) HasHeaderParameters() bool {
	return e != nil && e.HeaderParameters != nil
}

// HeaderParameter returns a header parameter value. A JSON null counts as absent.
func (e *GatewayEvent) HeaderParameter(key string) (interface{}, bool) {
	if !e.HasHeaderParameters() {
		return nil, false
	}
	value, ok := e.HeaderParameters[key]
	if !ok || value == nil {
		return nil, false
	}
	return value, true
}

// HasBody reports whether the event carries a non-null body
func (e *GatewayEvent) HasBody() bool {
	return e != nil && e.Body != nil
}
