package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/pipeline"
)

var (
	runSeeds       string
	runTargetsFile string
)

var runCmd = &cobra.Command{
	Use:   "run [seed-url...]",
	Short: "Discover and build in one pass, processing every discovered target",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		seeds, seedErrs, err := loadSeeds(runSeeds, cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if len(seeds) == 0 {
			return eris.New("no valid seed URLs given")
		}

		run, err := pipeline.NewRun(cfg, nil)
		if err != nil {
			return eris.Wrap(err, "init run")
		}
		list := discoverTargets(ctx, run, seeds, seedErrs)
		if runTargetsFile != "" {
			if err := writeTargetFile(runTargetsFile, list); err != nil {
				return err
			}
			zap.L().Info("targets written", zap.String("path", runTargetsFile), zap.Int("targets", len(list.Targets)))
		}

		result := run.Build(ctx, list.Targets)
		withDiscoverErrors(result, list.Errors)

		return writeResult(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runSeeds, "seeds", "", "file with one seed URL per line (- for stdin)")
	runCmd.Flags().StringVar(&runTargetsFile, "save-targets", "", "also write the discovered target list to this YAML file")
	addBuildFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
