// Package main is the entry point for the mahi-replicator command.
package main

import (
	"os"

	"github.com/TritonDataCenter/mahi-sub003/cmd/mahi-replicator/app"
	"github.com/TritonDataCenter/mahi-sub003/pkg/logger"
)

func main() {
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Get().Errorf("%v", err)
		os.Exit(1)
	}
}
