package health_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/upcall/health"
	"github.com/jonwraymond/upcall/profile"
)

func Example() {
	reg, err := profile.NewRegistry(profile.DefaultConfig())
	if err != nil {
		fmt.Println("config:", err)
		return
	}
	rep := health.NewReporter(reg)

	report := rep.Report(context.Background())
	fmt.Println(report.Status, report.Message())
	// Output: healthy all checks healthy
}

func ExampleNewCheckerFunc() {
	reg, _ := profile.NewRegistry(profile.DefaultConfig())

	rep := health.NewReporter(reg)
	rep.Register(health.NewCheckerFunc("scratch-dir", func(ctx context.Context) health.Result {
		return health.Result{Status: health.StatusHealthy, Message: "writable"}
	}))

	res, _ := rep.Check(context.Background(), "scratch-dir")
	fmt.Println(res.Status, res.Message)
	// Output: healthy writable
}
