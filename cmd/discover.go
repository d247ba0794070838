package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/directory-cli/internal/export"
	"github.com/sells-group/directory-cli/internal/model"
	"github.com/sells-group/directory-cli/internal/pipeline"
)

var (
	discoverSeeds string
	discoverOut   string
)

var discoverCmd = &cobra.Command{
	Use:   "discover [seed-url...]",
	Short: "Discover advisor and team pages from branch seed URLs",
	Long:  "Fetches each seed, classifies its site family and writes the discovered targets as a YAML list to curate before build.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		seeds, seedErrs, err := loadSeeds(discoverSeeds, cmd.InOrStdin(), args)
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

		if discoverOut == "" {
			return writeTargetList(cmd.OutOrStdout(), list)
		}
		if err := writeTargetFile(discoverOut, list); err != nil {
			return err
		}
		export.RenderTargets(cmd.OutOrStdout(), list.Targets)
		export.RenderErrors(cmd.OutOrStdout(), list.Errors)
		zap.L().Info("targets written", zap.String("path", discoverOut), zap.Int("targets", len(list.Targets)))
		return nil
	},
}

func init() {
	discoverCmd.Flags().StringVar(&discoverSeeds, "seeds", "", "file with one seed URL per line (- for stdin)")
	discoverCmd.Flags().StringVar(&discoverOut, "out", "", "write the target list to this YAML file (default stdout)")
	rootCmd.AddCommand(discoverCmd)
}

func discoverTargets(ctx context.Context, run *pipeline.Run, seeds []string, seedErrs []model.RunError) model.TargetList {
	targets, errs := run.Discover(ctx, seeds)
	return model.TargetList{
		RunID:   run.ID,
		Seeds:   seeds,
		Targets: targets,
		Errors:  append(seedErrs, errs...),
	}
}
