package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfaulkner/databayes/internal/model"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw a weighted sample from the Bayesian engine",
}

var sampleMarginalCmd = &cobra.Command{
	Use:   "marginal <entity>",
	Short: "sampleMarginal(entity, bucket)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		r, err := engine.SampleMarginal(rootCtx, args[0], bucket, cmp)
		if err != nil {
			return err
		}
		return reportSample(r)
	},
}

var samplePairwiseCmd = &cobra.Command{
	Use:   "pairwise <x> <y>",
	Short: "samplePairwise(x, y, bucket)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		r, err := engine.SamplePairwise(rootCtx, args[0], args[1], bucket, cmp)
		if err != nil {
			return err
		}
		return reportSample(r)
	},
}

var samplePairwiseCausalCmd = &cobra.Command{
	Use:   "pairwise-causal <x> <y>",
	Short: "samplePairwiseCausal(x, y, bucket) — restricted to cause == x",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		r, err := engine.SamplePairwiseCausal(rootCtx, args[0], args[1], bucket, cmp)
		if err != nil {
			return err
		}
		return reportSample(r)
	},
}

func reportSample(r *model.Relation) error {
	if r == nil {
		if jsonOutput {
			outputJSON(map[string]interface{}{"sample": nil})
		} else {
			fmt.Println("no candidates to sample from")
		}
		return nil
	}
	if jsonOutput {
		outputJSON(map[string]interface{}{
			"key":            r.Key(),
			"left":           r.Left,
			"right":          r.Right,
			"cause":          r.Cause,
			"instance_count": r.InstanceCount,
		})
	} else {
		fmt.Printf("%s  %s -> %s  cause=%s  instance_count=%d\n", r.Key(), r.Left, r.Right, r.Cause, r.InstanceCount)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{sampleMarginalCmd, samplePairwiseCmd, samplePairwiseCausalCmd} {
		c.Flags().StringArray("where", nil, "bucket clause as entity.attribute=value:type (repeatable)")
		c.Flags().String("cmp", "=", "comparator for --where clauses: = != < <= > >=")
		sampleCmd.AddCommand(c)
	}
	rootCmd.AddCommand(sampleCmd)
}
