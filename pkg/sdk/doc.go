// Package searchstub embeds the fixture-synthesis engine in Go tests.
//
// A Scenario accumulates a synthetic corpus step by step and registers, after every step,
// the exact request→response pairs a search UI may issue against the mirrored API.
// Scenario.Handler replays them, so the system under test can be pointed at an
// httptest server instead of the real API:
//
//	client, _ := searchstub.New(ctx, searchstub.WithMemory())
//	defer client.Close()
//
//	sc, _ := client.NewScenario(ctx)
//	_, _ = sc.AddItems(ctx, 3, "cell", "Biophysics")
//	_, _ = sc.AddItems(ctx, 2, "cell", "")
//
//	api := httptest.NewServer(sc.Handler())
//	defer api.Close()
//	// configure the system under test with api.URL as its API base
//
// Fixtures can also live in Redis or Valkey (WithRedis, WithValkey) so that a
// separately deployed replay server sees them.
package searchstub
