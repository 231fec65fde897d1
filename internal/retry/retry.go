// Package retry bounds transient upstream failures with exponential
// backoff. Both the query pipeline and the index builder call Bedrock
// through it; the builder's parallel embedding calls are the most
// throttle-prone path.
package retry

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"
)

// retryableCodes are upstream error codes worth retrying: transient
// throttling and availability blips. Invalid input and quota exhaustion
// are permanent and fail immediately.
var retryableCodes = map[string]bool{
	"ThrottlingException":         true,
	"TooManyRequestsException":    true,
	"ServiceUnavailableException": true,
	"ModelTimeoutException":       true,
}

func retryable(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return retryableCodes[apiErr.ErrorCode()]
	}
	return false
}

// Do runs op with bounded exponential backoff, retrying only
// throttling-class upstream failures. maxRetries is the number of
// attempts after the first; zero means a single attempt.
func Do(ctx context.Context, maxRetries int, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(maxRetries)),
		ctx,
	)
	return backoff.Retry(wrapped, policy)
}
