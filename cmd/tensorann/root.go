package main

import (
	"github.com/spf13/cobra"
)

func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tensorann",
		Short:         "Randomized near-neighbor search on the unit sphere",
		Long:          `Generate datasets, build Top1, CloseTop1 and TensorTop1 indexes, and query them.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	addPersistentFlags(rootCmd)

	rootCmd.AddCommand(
		NewGenerateCmd(),
		NewQueryCmd(),
		NewBaselineCmd(),
	)

	return rootCmd
}

func addPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("config", "tensorann.yaml", "Path to the YAML config file")
	cmd.PersistentFlags().String("store", "", "Dataset store (local|s3|minio|memory)")
	cmd.PersistentFlags().String("root", "", "Directory of the local store")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
}

// addDatasetFlags registers the flags that select or shape a dataset.
func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().Int("n", 0, "Number of vectors")
	cmd.Flags().Int("d", 0, "Dimension")
	cmd.Flags().Float64("sigma", 0, "Standard deviation of generated coordinates")
	cmd.Flags().Uint64("data-seed", 0, "Seed for generated data (0 = random)")
	cmd.Flags().String("compression", "", "Compression of saved datasets (none|lz4|zstd)")
}

// addIndexFlags registers the accuracy parameters.
func addIndexFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("alpha", 0, "Near threshold alpha")
	cmd.Flags().Float64("beta", 0, "Acceptance threshold beta")
	cmd.Flags().Float64("theta", 0, "Success exponent (0 = derived from alpha and beta)")
}

// addQueryFlags registers how the query vector is chosen.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "Dataset name (default: dimension_<d>/sample_<n>.bin)")
	cmd.Flags().Bool("current", false, "Use the published CURRENT dataset")
	cmd.Flags().Int("query-index", 0, "Query with the dataset point at this position")
	cmd.Flags().Bool("random-query", false, "Query with a fresh random unit vector")
}
