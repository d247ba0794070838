package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/directory-cli/internal/pipeline"
)

var buildTargets string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract and reconcile people from a curated target list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		list, err := readTargetList(buildTargets)
		if err != nil {
			return err
		}
		if len(list.Included(0)) == 0 {
			return eris.Errorf("no included targets in %s", buildTargets)
		}

		run, err := pipeline.NewRun(cfg, nil)
		if err != nil {
			return eris.Wrap(err, "init run")
		}
		result := run.Build(ctx, list.Targets)
		withDiscoverErrors(result, list.Errors)

		return writeResult(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildTargets, "targets", "", "curated target list from discover (required)")
	_ = buildCmd.MarkFlagRequired("targets")
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}
