package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfaulkner/databayes/internal/model"
)

var addRelationCmd = &cobra.Command{
	Use:   "add-relation <left> <right>",
	Short: "Write (or merge into) a relation between two entities",
	Long: `Write a relation between left and right. Writing a relation whose fields
hash identically to one already stored merges into it by summing
instance_count rather than creating a duplicate.

Examples:
  databayes add-relation _x _y --cause _x
  databayes add-relation person movie --cause person \
    --attr-left "name=alice:string" --attr-right "title=inception:string"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left, right := args[0], args[1]
		cause, _ := cmd.Flags().GetString("cause")
		count, _ := cmd.Flags().GetInt("count")
		attrLeftSpecs, _ := cmd.Flags().GetStringArray("attr-left")
		attrRightSpecs, _ := cmd.Flags().GetStringArray("attr-right")

		if cause == "" {
			cause = left
		}

		attrsLeft, typesLeft, err := attrsAndTypes(attrLeftSpecs)
		if err != nil {
			return err
		}
		attrsRight, typesRight, err := attrsAndTypes(attrRightSpecs)
		if err != nil {
			return err
		}

		r := &model.Relation{
			Left:          left,
			Right:         right,
			AttrsLeft:     attrsLeft,
			AttrsRight:    attrsRight,
			TypesLeft:     typesLeft,
			TypesRight:    typesRight,
			Cause:         cause,
			InstanceCount: count,
		}

		if err := idx.WriteRelation(rootCtx, r); err != nil {
			return err
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"key":            r.Key(),
				"instance_count": r.InstanceCount,
			})
		} else {
			fmt.Printf("wrote relation %s (instance_count=%d)\n", r.Key(), r.InstanceCount)
		}
		return nil
	},
}

func init() {
	addRelationCmd.Flags().String("cause", "", "causal endpoint, must equal left or right (defaults to left)")
	addRelationCmd.Flags().Int("count", 1, "observation multiplicity for this write")
	addRelationCmd.Flags().StringArray("attr-left", nil, "left-side attribute as name=value:type (repeatable)")
	addRelationCmd.Flags().StringArray("attr-right", nil, "right-side attribute as name=value:type (repeatable)")
	rootCmd.AddCommand(addRelationCmd)
}
