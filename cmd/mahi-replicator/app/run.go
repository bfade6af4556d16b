package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/TritonDataCenter/mahi-sub003/pkg/config"
	"github.com/TritonDataCenter/mahi-sub003/pkg/kv"
	"github.com/TritonDataCenter/mahi-sub003/pkg/logger"
	"github.com/TritonDataCenter/mahi-sub003/pkg/replicator"
	"github.com/TritonDataCenter/mahi-sub003/pkg/transform"
)

var changelogPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tail a changelog file and replicate it into the KV projection",
	Long: `run drives the replicator loop: it reads changenumber-ordered changelog
entries from --changelog-file, dispatches each through the per-objectclass
transforms, and commits the resulting mutations (plus the advanced cursor)
to the configured Redis store.

The real directory-tailing collaborator is outside this module's scope
(spec.md §1); --changelog-file is a concrete stand-in for replaying an
exported changelog.`,
	RunE: runCmdFunc,
}

func init() {
	runCmd.Flags().StringVar(&changelogPath, "changelog-file", "",
		"Path to a newline-delimited JSON changelog file (required)")
	_ = runCmd.MarkFlagRequired("changelog-file")
}

func runCmdFunc(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	client := kv.NewRedisClient(rdb)

	source, err := replicator.NewFileSource(changelogPath)
	if err != nil {
		return fmt.Errorf("opening changelog file: %w", err)
	}

	dispatcher := transform.NewDispatcher(identityParser{}, logger.Get())
	d := replicator.NewDriver(source, client, dispatcher, cfg.CursorKey, logger.Get())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = d.Run(ctx)
	if err != nil && ctx.Err() != nil {
		logger.Get().Info("shutting down on signal")
		return nil
	}
	return err
}

// identityParser is a stand-in for the real policy-rule text parser
// (spec.md §6), which is an opaque collaborator outside this module's
// scope. It stores every rule's text unchanged as its own "parsed" form
// so the replicator is runnable without that collaborator wired in.
type identityParser struct{}

func (identityParser) Parse(rule string) (any, error) { return rule, nil }
