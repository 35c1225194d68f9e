package lambda

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// Invocation describes the function invocation currently being served
type Invocation struct {
	RequestID    string    `json:"request_id"`
	FunctionName string    `json:"function_name"`
	Deadline     time.Time `json:"deadline,omitempty"`
}

// InvocationFromContext reads invocation metadata from the runtime context.
// Outside a function runtime a fresh request ID is generated.
func InvocationFromContext(ctx context.Context) Invocation {
	inv := Invocation{FunctionName: lambdacontext.FunctionName}

	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		inv.RequestID = lc.AwsRequestID
	} else {
		inv.RequestID = uuid.New().String()
	}

	if deadline, ok := ctx.Deadline(); ok {
		inv.Deadline = deadline
	}

	return inv
}
