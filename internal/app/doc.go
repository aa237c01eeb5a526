// Package app is the composition root of the stoq browser.
//
// Run turns the effective configuration into an API client, loads the saved
// theme and hands both to the Bubble Tea program:
//
//	cfg, _ := config.Load("")
//	err := app.Run(ctx, app.Options{Config: cfg, Logger: log})
//
// A broken preferences file is logged and ignored. Nothing is fetched before
// the UI starts; the first page is requested by the model's Init so that the
// loading state is visible.
//
// NewClient is shared with the non-interactive subcommands so that every
// entry point honours the same timeout, retry and logging settings.
package app
