package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/model"
)

var getProbCmd = &cobra.Command{
	Use:   "get-prob",
	Short: "Compute marginal, pairwise, or conditional probabilities",
}

var getProbMarginalCmd = &cobra.Command{
	Use:   "marginal <entity>",
	Short: "P_marginal(entity | bucket)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		p, err := engine.PMarginal(rootCtx, args[0], bucket, cmp)
		if err != nil {
			return err
		}
		return reportProbability("marginal", p)
	},
}

var getProbPairwiseCmd = &cobra.Command{
	Use:   "pairwise <e1> <e2>",
	Short: "P_pairwise(e1, e2 | bucket)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		p, err := engine.PPairwise(rootCtx, args[0], args[1], bucket, cmp)
		if err != nil {
			return err
		}
		return reportProbability("pairwise", p)
	},
}

var getProbConditionalCmd = &cobra.Command{
	Use:   "conditional <e1> <e2>",
	Short: "P_conditional(e1 | e2, bucket) = P_pairwise(e1,e2) / P_marginal(e2)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bucket, cmp, err := bucketAndCmpFlags(cmd)
		if err != nil {
			return err
		}
		p, err := engine.PConditional(rootCtx, args[0], args[1], bucket, cmp)
		if err != nil {
			return err
		}
		return reportProbability("conditional", p)
	},
}

func bucketAndCmpFlags(cmd *cobra.Command) (*model.AttributeBucket, column.Comparator, error) {
	whereSpecs, _ := cmd.Flags().GetStringArray("where")
	cmpToken, _ := cmd.Flags().GetString("cmp")

	cmp, err := column.ParseComparator(cmpToken)
	if err != nil {
		return nil, "", err
	}
	bucket, err := buildBucket(whereSpecs)
	if err != nil {
		return nil, "", err
	}
	return bucket, cmp, nil
}

func reportProbability(kind string, p float64) error {
	if jsonOutput {
		outputJSON(map[string]interface{}{"kind": kind, "probability": p})
	} else {
		fmt.Printf("P_%s = %v\n", kind, p)
	}
	return nil
}

func init() {
	for _, c := range []*cobra.Command{getProbMarginalCmd, getProbPairwiseCmd, getProbConditionalCmd} {
		c.Flags().StringArray("where", nil, "bucket clause as entity.attribute=value:type (repeatable)")
		c.Flags().String("cmp", "=", "comparator for --where clauses: = != < <= > >=")
		getProbCmd.AddCommand(c)
	}
	rootCmd.AddCommand(getProbCmd)
}
