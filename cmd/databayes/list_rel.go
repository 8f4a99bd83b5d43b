package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfaulkner/databayes/internal/column"
	"github.com/rfaulkner/databayes/internal/filter"
)

var listRelCmd = &cobra.Command{
	Use:   "list-rel <left> <right>",
	Short: "List relations between two entities, optionally filtered by a bucket",
	Long: `List stored relations between left and right (either side may be "*" to
enumerate every relation touching the other). Apply --where clauses,
each "entity.attribute=value:type", to sieve the result through the
filter engine under --cmp (default "=").

Examples:
  databayes list-rel _x _y
  databayes list-rel _x "*" --where "_x.a=1:integer" --cmp ">"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left, right := args[0], args[1]
		whereSpecs, _ := cmd.Flags().GetStringArray("where")
		cmpToken, _ := cmd.Flags().GetString("cmp")

		cmp, err := column.ParseComparator(cmpToken)
		if err != nil {
			return err
		}
		bucket, err := buildBucket(whereSpecs)
		if err != nil {
			return err
		}

		relations, err := idx.FetchRelationPrefix(rootCtx, left, right)
		if err != nil {
			return err
		}
		relations = filter.Apply(relations, bucket, cmp)

		if jsonOutput {
			type row struct {
				Key           string `json:"key"`
				Left          string `json:"left"`
				Right         string `json:"right"`
				Cause         string `json:"cause"`
				InstanceCount int    `json:"instance_count"`
			}
			rows := make([]row, 0, len(relations))
			for _, r := range relations {
				rows = append(rows, row{Key: r.Key(), Left: r.Left, Right: r.Right, Cause: r.Cause, InstanceCount: r.InstanceCount})
			}
			outputJSON(rows)
			return nil
		}

		for _, r := range relations {
			fmt.Printf("%s  %s -> %s  cause=%s  instance_count=%d\n", r.Key(), r.Left, r.Right, r.Cause, r.InstanceCount)
		}
		fmt.Printf("%d relation(s)\n", len(relations))
		return nil
	},
}

func init() {
	listRelCmd.Flags().StringArray("where", nil, "bucket clause as entity.attribute=value:type (repeatable)")
	listRelCmd.Flags().String("cmp", "=", "comparator for --where clauses: = != < <= > >=")
	rootCmd.AddCommand(listRelCmd)
}
