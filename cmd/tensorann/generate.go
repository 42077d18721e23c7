package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store a Gaussian dataset",
		Long: `Draw n i.i.d. Gaussian vectors of dimension d, store them as
dimension_<d>/sample_<n>.bin and publish them as CURRENT.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	addDatasetFlags(cmd)
	cmd.Flags().Bool("normalize", true, "Scale every vector to unit length")
	cmd.Flags().Bool("publish", true, "Point CURRENT at the new dataset")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	data, err := e.generate(ctx, e.cfg.Dataset.N, e.cfg.Dataset.Seed)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	name, err := e.store.Save(ctx, data)
	if err != nil {
		return err
	}

	publish, _ := cmd.Flags().GetBool("publish")
	if publish {
		if err := e.store.Publish(ctx, name); err != nil {
			return err
		}
	}

	if e.asJSON {
		return e.printJSON(cmd, map[string]any{
			"name":        name,
			"n":           len(data),
			"d":           e.cfg.Dataset.D,
			"normalized":  e.cfg.Dataset.Normalize,
			"compression": e.cfg.Dataset.Compression,
			"published":   publish,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d vectors, dimension %d)\n", name, len(data), e.cfg.Dataset.D)
	return nil
}
