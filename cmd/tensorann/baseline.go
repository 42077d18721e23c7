package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tensorann/index/flat"
)

func NewBaselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Exact scan of a dataset for comparison",
		Long: `Load a dataset and report the point with the largest inner product
with the query, and the first point that clears beta.`,
		Args: cobra.NoArgs,
		RunE: runBaseline,
	}

	addDatasetFlags(cmd)
	addQueryFlags(cmd)
	cmd.Flags().Float64("beta", 0, "Acceptance threshold beta")
	cmd.Flags().Int("workers", 0, "Scan workers (0 = all CPUs)")
	return cmd
}

func runBaseline(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	data, name, err := e.loadDataset(cmd)
	if err != nil {
		return err
	}
	q, label, err := e.queryVector(cmd, data)
	if err != nil {
		return err
	}

	f, err := flat.New(data, func(o *flat.Options) {
		o.Workers = e.cfg.Index.Workers
		o.Controller = e.rc
	})
	if err != nil {
		return err
	}

	best, err := f.Search(ctx, q)
	if err != nil {
		return err
	}
	beta := e.cfg.Index.Beta
	first, err := f.Query(q, beta)
	if err != nil {
		return err
	}

	if e.asJSON {
		out := map[string]any{
			"dataset":         name,
			"query":           label,
			"best_id":         best.ID,
			"best_similarity": best.Similarity,
			"beta":            beta,
			"found":           first.Found,
		}
		if first.Found {
			out["id"] = first.ID
			out["similarity"] = first.Similarity
		}
		return e.printJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "exact scan over %s\n", name)
	fmt.Fprintf(w, "best point %d, inner product %.6f\n", best.ID, best.Similarity)
	if first.Found {
		fmt.Fprintf(w, "first point above beta=%g: %d, inner product %.6f\n", beta, first.ID, first.Similarity)
	} else {
		fmt.Fprintf(w, "no point above beta=%g\n", beta)
	}
	return nil
}
