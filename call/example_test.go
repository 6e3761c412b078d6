package call_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/upcall/call"
)

func ExampleRun() {
	breaker := call.NewBreaker(call.BreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  time.Minute,
	})

	exec, err := call.NewExecutor(call.Policy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
	}, breaker)
	if err != nil {
		fmt.Println("bad policy:", err)
		return
	}

	calls := 0
	res := call.Run(context.Background(), exec, "generate-text", func(ctx context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", errors.New("503 service unavailable")
		}
		return "hello", nil
	})

	fmt.Println("succeeded:", res.Succeeded())
	fmt.Println("value:", res.Value)
	fmt.Println("attempts:", res.Attempts)
	// Output:
	// succeeded: true
	// value: hello
	// attempts: 2
}

func ExampleBreaker() {
	breaker := call.NewBreaker(call.BreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
		OnStateChange: func(from, to call.State) {
			fmt.Printf("circuit: %s -> %s\n", from, to)
		},
	})

	breaker.OnFailure()
	breaker.OnFailure()

	fmt.Println("allowed:", breaker.Allow())

	breaker.Reset()
	fmt.Println("allowed after reset:", breaker.Allow())
	// Output:
	// circuit: closed -> open
	// allowed: false
	// circuit: open -> closed
	// allowed after reset: true
}

func ExamplePolicy_Retryable() {
	policy := call.DefaultPolicy()

	fmt.Println(policy.Retryable(errors.New("rate_limit_exceeded: slow down")))
	fmt.Println(policy.Retryable(errors.New("invalid request payload")))
	// Output:
	// true
	// false
}
