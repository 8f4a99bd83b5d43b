package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rfaulkner/databayes/internal/model"
)

var addEntityCmd = &cobra.Command{
	Use:   "add-entity <name> [field:type ...]",
	Short: "Write an entity schema",
	Long: `Write an entity schema, overwriting any previous schema under that name.

Examples:
  databayes add-entity person name:string age:integer
  databayes add-entity _x`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		fields := make([]model.FieldDef, 0, len(args)-1)
		for _, spec := range args[1:] {
			f, err := parseFieldSpec(spec)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}

		e := &model.Entity{Name: name, Fields: fields}
		if err := idx.WriteEntity(rootCtx, e); err != nil {
			return err
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{"entity": name, "fields": len(fields)})
		} else {
			fmt.Printf("wrote entity %q with %d field(s)\n", name, len(fields))
		}
		return nil
	},
}

var removeEntityCmd = &cobra.Command{
	Use:   "remove-entity <name>",
	Short: "Remove an entity and cascade-delete its relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		removed, err := idx.RemoveEntity(rootCtx, name)
		if err != nil {
			return err
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"entity": name, "removed": removed})
		} else if removed {
			fmt.Printf("removed entity %q and its relations\n", name)
		} else {
			fmt.Printf("no such entity %q\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addEntityCmd)
	rootCmd.AddCommand(removeEntityCmd)
}
