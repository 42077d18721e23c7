package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/tensorann"
	"github.com/hupe1980/tensorann/index/flat"
)

func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Build an index over a dataset and query it",
		Long: `Load a dataset (generating it when missing), build a Top1, CloseTop1
or TensorTop1 index and report a point whose inner product with the
query is at least beta.`,
		Args: cobra.NoArgs,
		RunE: runQuery,
	}

	addDatasetFlags(cmd)
	addIndexFlags(cmd)
	addQueryFlags(cmd)
	cmd.Flags().StringP("kind", "k", "", "Index kind (top1|close|tensor)")
	cmd.Flags().Bool("fast", false, "Fast preprocessing for the tensor index")
	cmd.Flags().Uint64("seed", 0, "Seed for the random directions (0 = random)")
	cmd.Flags().Int("workers", 0, "Build workers (0 = all CPUs)")
	cmd.Flags().Bool("all", false, "Query with every dataset point and report the hit rate")
	return cmd
}

func runQuery(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	kind, err := tensorann.ParseKind(e.cfg.Index.Kind)
	if err != nil {
		return err
	}

	data, name, err := e.loadDataset(cmd)
	if err != nil {
		return err
	}

	metrics := &tensorann.BasicMetricsCollector{}
	opts := []tensorann.Option{
		tensorann.WithLogger(e.logger),
		tensorann.WithMetricsCollector(metrics),
		tensorann.WithFastPreprocessing(e.cfg.Index.Fast),
		tensorann.WithWorkers(e.cfg.Index.Workers),
		tensorann.WithResourceController(e.rc),
	}
	if e.cfg.Index.Seed != 0 {
		opts = append(opts, tensorann.WithSeed(e.cfg.Index.Seed))
	}

	params := e.cfg.Params()
	idx, err := tensorann.New(ctx, kind, data, params, opts...)
	if err != nil {
		return fmt.Errorf("build %s index: %w", kind, err)
	}

	if all, _ := cmd.Flags().GetBool("all"); all {
		return e.reportHitRate(cmd, idx, data, name)
	}

	q, label, err := e.queryVector(cmd, data)
	if err != nil {
		return err
	}
	res, err := idx.Query(ctx, q)
	if err != nil {
		return err
	}

	if e.asJSON {
		out := map[string]any{
			"dataset": name,
			"kind":    kind.String(),
			"query":   label,
			"alpha":   params.Alpha,
			"beta":    params.Beta,
			"theta":   params.Theta,
			"found":   res.Found,
		}
		if res.Found {
			out["id"] = res.ID
			out["similarity"] = res.Similarity
		}
		return e.printJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s index over %s (%s)\n", kind, name, params)
	if !res.Found {
		fmt.Fprintln(w, "no close point found")
		return nil
	}
	fmt.Fprintf(w, "found point %d, inner product %.6f\n", res.ID, res.Similarity)
	return nil
}

func (e *env) reportHitRate(cmd *cobra.Command, idx *tensorann.Index, data [][]float64, name string) error {
	ctx := cmd.Context()
	beta := idx.Params().Beta

	results, err := idx.QueryBatch(ctx, data)
	if err != nil {
		return err
	}

	exact, err := flat.New(data, func(o *flat.Options) {
		o.Workers = e.cfg.Index.Workers
	})
	if err != nil {
		return err
	}

	found := make([]bool, len(results))
	exactFound := make([]bool, len(results))
	for i, res := range results {
		found[i] = res.Found
		ref, err := exact.Query(data[i], beta)
		if err != nil {
			return err
		}
		exactFound[i] = ref.Found
	}

	hit, ref := hitRate(found), hitRate(exactFound)
	if e.asJSON {
		return e.printJSON(cmd, map[string]any{
			"dataset":        name,
			"kind":           idx.Kind().String(),
			"queries":        len(results),
			"hit_rate":       hit,
			"exact_hit_rate": ref,
			"stats":          summarize(idx.Stats()),
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s index over %s (%s)\nhit rate %.4f, exact %.4f over %d queries\n",
		idx.Kind(), name, idx.Params(), hit, ref, len(results))
	return nil
}

func summarize(st tensorann.Stats) map[string]any {
	out := map[string]any{
		"id":        st.ID.String(),
		"points":    st.Points,
		"dimension": st.Dimension,
		"build_ms":  st.BuildTime.Milliseconds(),
	}
	if st.Top1 != nil {
		out["directions"] = st.Top1.Directions
		out["buckets"] = st.Top1.Buckets
		out["covered"] = st.Top1.Covered
	}
	if st.Tensor != nil {
		out["sub_indexes"] = len(st.Tensor.SubIndexes)
		out["buckets"] = st.Tensor.Buckets
		out["covered"] = st.Tensor.Covered
	}
	return out
}

func hitRate(found []bool) float64 {
	if len(found) == 0 {
		return 0
	}
	hits := 0
	for _, ok := range found {
		if ok {
			hits++
		}
	}
	return float64(hits) / float64(len(found))
}
