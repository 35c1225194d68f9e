package models

import "net/http"

// DefaultReplaceStatus is the status every fresh draft starts with
const DefaultReplaceStatus = http.StatusOK

// ResponseDraft is the patch a custom response function hands back to the gateway.
// Optional fields are pointers so that "unset" and the zero value stay distinguishable on the wire.
type ResponseDraft struct {
	ReplaceStatus   int               `json:"replace_status"`
	ReplaceHeaders  map[string]string `json:"replace_headers"`
	RemoveHeaders   []string          `json:"remove_headers"`
	ReplaceBody     *string           `json:"replace_body,omitempty"`
	IsBase64Encoded *bool             `json:"is_base64_encoded,omitempty"`
}

// NewResponseDraft creates an empty draft with the default status
func NewResponseDraft() *ResponseDraft {
	return &ResponseDraft{
		ReplaceStatus: DefaultReplaceStatus,
	}
}

// SetBody stages a replacement body. A nil base64 flag leaves is_base64_encoded unset.
func (d *ResponseDraft) SetBody(body string, isBase64Encoded *bool) {
	d.ReplaceBody = &body
	d.IsBase64Encoded = isBase64Encoded
}

// Body returns the staged replacement body, if any
func (d *ResponseDraft) Body() (string, bool) {
	if d == nil || d.ReplaceBody == nil {
		return "", false
	}
	return *d.ReplaceBody, true
}

// Base64Encoded returns the staged is_base64_encoded flag, if any
func (d *ResponseDraft) Base64Encoded() (bool, bool) {
	if d == nil || d.IsBase64Encoded == nil {
		return false, false
	}
	return *d.IsBase64Encoded, true
}
