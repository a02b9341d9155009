package classify

import (
	"context"
	"errors"

	"github.com/qi-principal/Package-machine/internal/common"
	"github.com/qi-principal/Package-machine/internal/model"
	"github.com/qi-principal/Package-machine/internal/service"
)

// retryClassifier decorates a Classifier with caller-side retry. The
// pipeline never retries on its own; the CLI wires this in when the
// user asks for it.
type retryClassifier struct {
	inner service.Classifier
	opts  common.RetryOptions
}

// WithRetry wraps a classifier so transient service failures are
// retried with exponential backoff. Malformed responses and
// configuration errors are not retried.
func WithRetry(inner service.Classifier, opts common.RetryOptions) service.Classifier {
	return &retryClassifier{inner: inner, opts: opts}
}

func (r *retryClassifier) Classify(ctx context.Context, batch []model.FileRecord, categories []string) (map[string]model.ClassificationResult, error) {
	var results map[string]model.ClassificationResult

	err := common.WithRetry(ctx, func() error {
		var callErr error
		results, callErr = r.inner.Classify(ctx, batch, categories)
		if callErr == nil {
			return nil
		}

		// Only service-level failures are worth repeating.
		var formatErr *common.ResponseFormatError
		if errors.As(callErr, &formatErr) || errors.Is(callErr, common.ErrMissingConfig) {
			return &common.RetryableError{Err: callErr, Retryable: false}
		}
		return callErr
	}, r.opts)
	if err != nil {
		return nil, err
	}

	return results, nil
}
