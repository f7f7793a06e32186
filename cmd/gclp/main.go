// Command gclp computes grand-canonical phase equilibria, T=0K attributes and
// stabilities of compositions against a set of reference phases.
//
// Usage:
//
//	gclp solve      [formula...] [--targets file]   ground states
//	gclp attributes [formula...] [--targets file]   T0K:* features
//	gclp stability  --targets file                  energy above hull
//	gclp filter     --targets file                  stability < threshold
//	gclp import     file...                         load phases into --store
//	gclp init-config path                           write the default config
//
// Reference phases come from --phases files (YAML or JSON lists of
// {composition, energy}) and/or a phase store. Results are JSON lines on
// stdout; logs go to stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
