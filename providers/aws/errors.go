package aws

import (
	"context"
	"errors"
	"net"

	"github.com/aws/smithy-go"

	"github.com/aurorec/aurorec/faults"
)

// throttleCodes are provider error codes that indicate rate limiting and
// are safe to retry.
var throttleCodes = map[string]bool{
	"Throttling":               true,
	"ThrottlingException":      true,
	"ThrottledException":       true,
	"RequestLimitExceeded":     true,
	"TooManyRequestsException": true,
	"RequestThrottled":         true,
	"SlowDown":                 true,
}

// classify wraps a raw SDK error into the fault taxonomy. Throttling, server
// faults, and network timeouts are transient; everything else the provider
// rejects is permanent.
func classify(err error, entityID, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return faults.Transient(entityID, op, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if throttleCodes[apiErr.ErrorCode()] {
			return faults.Transient(entityID, op, err)
		}
		if apiErr.ErrorFault() == smithy.FaultServer {
			return faults.Transient(entityID, op, err)
		}
		return faults.Permanent(entityID, op, err)
	}

	// Connection resets and DNS hiccups come through as plain net errors.
	if errors.As(err, &netErr) {
		return faults.Transient(entityID, op, err)
	}

	return faults.Permanent(entityID, op, err)
}
