package call

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Retryable reports whether the error is transient under this policy.
//
// An error is retryable iff its lower-cased message, or the lower-cased name
// of its Go type, contains one of the policy's patterns as a substring.
// Context cancellation is never retryable: the caller has given up.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	msg := strings.ToLower(err.Error())
	kind := strings.ToLower(fmt.Sprintf("%T", err))

	for _, pattern := range p.RetryablePatterns {
		pattern = strings.ToLower(pattern)
		if pattern == "" {
			continue
		}
		if strings.Contains(msg, pattern) || strings.Contains(kind, pattern) {
			return true
		}
	}
	return false
}
