package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/streamhouse/songlake/internal/objstore"
	"github.com/streamhouse/songlake/internal/pipeline"
	"github.com/streamhouse/songlake/internal/runlog"
)

// addETLFlags registers the flags shared by the run/songs/logs commands.
// Flags override config.yaml values.
func addETLFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "input root (path or s3://bucket/prefix)")
	cmd.Flags().String("output", "", "output root (path or s3://bucket/prefix)")
	cmd.Flags().Int("workers", 0, "parallel file readers")
	cmd.Flags().String("page-filter", "", "event page eligible for fact building (\"\" admits all)")
	cmd.Flags().String("join-key", "", "songplay join key: title, composite")
	cmd.Flags().String("join-type", "", "songplay join type: inner, left")
	cmd.Flags().String("user-dedup", "", "user dedup policy: tuple, latest")
	cmd.Flags().Bool("lenient", false, "drop events with invalid timestamps instead of aborting")
}

// etlOptions merges config and flags into pipeline options.
func etlOptions(cmd *cobra.Command) (pipeline.Options, error) {
	opts := pipeline.Options{
		Workers:           cfg.ETL.Workers,
		PageFilter:        cfg.ETL.PageFilter,
		LenientTimestamps: cfg.ETL.LenientTimestamps,
	}

	if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
		opts.Workers = w
	}
	if cmd.Flags().Changed("page-filter") {
		opts.PageFilter, _ = cmd.Flags().GetString("page-filter")
	}
	if cmd.Flags().Changed("lenient") {
		opts.LenientTimestamps, _ = cmd.Flags().GetBool("lenient")
	}

	joinKey := cfg.ETL.JoinKey
	if s, _ := cmd.Flags().GetString("join-key"); s != "" {
		joinKey = s
	}
	key, err := pipeline.ParseJoinKey(joinKey)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.JoinKey = key

	joinType := cfg.ETL.JoinType
	if s, _ := cmd.Flags().GetString("join-type"); s != "" {
		joinType = s
	}
	jt, err := pipeline.ParseJoinType(joinType)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.JoinType = jt

	dedup := cfg.ETL.UserDedup
	if s, _ := cmd.Flags().GetString("user-dedup"); s != "" {
		dedup = s
	}
	ud, err := pipeline.ParseUserDedup(dedup)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.UserDedup = ud

	return opts, nil
}

// newPipeline builds the pipeline and its run log from config and flags. The
// caller owns closing the returned run log.
func newPipeline(ctx context.Context, cmd *cobra.Command) (*pipeline.Pipeline, *runlog.Log, error) {
	input := cfg.ETL.Input
	if s, _ := cmd.Flags().GetString("input"); s != "" {
		input = s
	}
	output := cfg.ETL.Output
	if s, _ := cmd.Flags().GetString("output"); s != "" {
		output = s
	}
	if input == "" || output == "" {
		return nil, nil, eris.New("etl: input and output roots are required (set etl.input/etl.output or --input/--output)")
	}

	opts, err := etlOptions(cmd)
	if err != nil {
		return nil, nil, err
	}

	creds := objstore.Credentials{
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.AWS.Endpoint,
	}

	in, err := objstore.Open(ctx, input, creds)
	if err != nil {
		return nil, nil, err
	}
	out, err := objstore.Open(ctx, output, creds)
	if err != nil {
		return nil, nil, err
	}

	runs, err := runlog.Open(cfg.Runlog.Path)
	if err != nil {
		return nil, nil, err
	}
	if err := runs.Migrate(ctx); err != nil {
		runs.Close()
		return nil, nil, err
	}

	return pipeline.New(in, out, runs, opts), runs, nil
}
