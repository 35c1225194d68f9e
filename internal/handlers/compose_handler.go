package handlers

import (
	"context"
	"net/http"

	"apigw-custom-response/internal/models"
	"apigw-custom-response/internal/services"
	"apigw-custom-response/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ComposeHandler exposes the response composer to the gateway and to local callers
type ComposeHandler struct {
	composer services.ResponseComposer
}

// NewComposeHandler creates a new compose handler
func NewComposeHandler(composer services.ResponseComposer) *ComposeHandler {
	return &ComposeHandler{
		composer: composer,
	}
}

// Compose handles POST /api/v1/compose. The body is a gateway event; the
// response is the draft, or null when the event is passed through.
func (h *ComposeHandler) Compose(c *gin.Context) {
	var event models.GatewayEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	draft := h.composer.Compose(&event)
	c.JSON(http.StatusOK, draft)
}

// HandleInvoke is the function runtime entrypoint. The two recoverable
// composer conditions never surface as errors.
func (h *ComposeHandler) HandleInvoke(ctx context.Context, event *models.GatewayEvent) (*models.ResponseDraft, error) {
	invocation := lambda.InvocationFromContext(ctx)
	fields := logrus.Fields{
		"request_id":    invocation.RequestID,
		"function_name": invocation.FunctionName,
	}
	if status, ok := event.HeaderParameter(models.HeaderParamStatus); ok {
		fields["upstream_status"] = status
	}

	draft := h.composer.Compose(event)
	fields["customized"] = draft != nil
	logrus.WithFields(fields).Info("Custom response composed")

	return draft, nil
}
