package bedrock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/smithy-go"

	"strandctl/internal/domain"
)

// mapControlError translates control-plane SDK failures into domain
// sentinels. notFound is the sentinel used for ResourceNotFoundException,
// which depends on the resource the call was addressing.
func mapControlError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", domain.ErrCancelled, err)
	}

	msg := err.Error()

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException",
			"ExpiredTokenException", "InvalidSignatureException":
			return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
		case "ThrottlingException", "TooManyRequestsException":
			return fmt.Errorf("%w: %s", domain.ErrThrottled, msg)
		case "ResourceNotFoundException":
			return fmt.Errorf("%w: %s", notFound, msg)
		case "ValidationException", "ConflictException", "ServiceQuotaExceededException":
			return fmt.Errorf("%w: %s", domain.ErrProvisioning, msg)
		}
	}

	return domain.WrapOp("bedrock", err)
}

// mapInvokeError translates runtime invocation failures. Anything that is
// not an auth, throttle, lookup, or cancellation problem collapses into
// ErrInvocation; the original message is preserved for operators.
func mapInvokeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", domain.ErrCancelled, err)
	}

	msg := err.Error()

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "UnrecognizedClientException", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
		case "ThrottlingException", "TooManyRequestsException":
			return fmt.Errorf("%w: %s", domain.ErrThrottled, msg)
		case "ResourceNotFoundException":
			return fmt.Errorf("%w: %s", domain.ErrAliasNotFound, msg)
		}
	}

	return fmt.Errorf("%w: %s", domain.ErrInvocation, msg)
}
