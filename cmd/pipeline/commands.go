package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rail-fusion/internal/domain"
)

func newRunCmd(envFile *string) *cobra.Command {
	var (
		nullPolicy string
		refetch    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the fusion pipeline over the raw directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy := domain.NullPolicy(nullPolicy)
			if policy != "" && !policy.Valid() {
				return fmt.Errorf("unknown null policy %q, expected %s or %s",
					nullPolicy, domain.NullPolicyDrop, domain.NullPolicyFill)
			}

			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			if err := a.connectDatabase(ctx); err != nil {
				return err
			}
			if err := a.connectRedis(); err != nil {
				return err
			}
			if err := a.setupNotifier(); err != nil {
				return err
			}

			req := domain.FusionRunRequest{RequestID: uuid.New(), NullPolicy: policy, Refetch: refetch}
			report, runErr := a.fusionUseCase().Run(ctx, req)
			if report != nil {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}
			if runErr != nil {
				return runErr
			}

			a.log.Info("Fusion run finished",
				zap.String("run_id", report.RunID.String()),
				zap.Int("segments", report.SegmentCount),
				zap.Int("station_years", report.StationYearCount),
				zap.String("output_dir", a.cfg.Pipeline.OutputDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&nullPolicy, "null-policy", "", "missing max speed handling: drop-na or fill-na (default from config)")
	cmd.Flags().BoolVar(&refetch, "refetch", false, "download the raw sources before running")
	return cmd
}

func newFetchCmd(envFile *string) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the raw open data files listed in the source manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if len(a.manifest.Sources) == 0 {
				return fmt.Errorf("source manifest %q lists no sources", a.cfg.Pipeline.SourcesFile)
			}
			return a.fusionUseCase().Fetch(cmd.Context(), clear)
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", true, "remove previously downloaded files first")
	return cmd
}

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the PostGIS tables for the canonical outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if !a.cfg.Database.Enabled {
				return fmt.Errorf("database is disabled, set DB_ENABLED=true")
			}
			if err := a.connectDatabase(cmd.Context()); err != nil {
				return err
			}
			if err := a.db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.log.Info("Migrations applied")
			return nil
		},
	}
}
