// Package profile maps logical operation classes to tuned call execution.
//
// An operation profile is a named pairing of a retry policy and a circuit
// breaker, optionally fronted by admission guards (rate limit, concurrency
// cap). A Registry holds one such pairing per profile name, built once at
// process start from configuration and shared by every caller for the
// process lifetime.
//
//	cfg := profile.DefaultConfig()
//	reg, err := profile.NewRegistry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res := profile.Do(ctx, reg, "content-generation", "brand-banner",
//	    func(ctx context.Context) (Image, error) {
//	        return client.GenerateImage(ctx, prompt)
//	    })
//
// Profiles share nothing with each other: a failing image upstream opens
// only the "content-generation" breaker while "quick" status checks keep
// flowing. Registry.Health exposes every breaker's state for observability,
// and Registry.Reset lets an operator force a stuck breaker closed.
package profile
