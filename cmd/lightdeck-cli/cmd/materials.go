package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lightdeck/internal/application/commands"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Find and delete unused materials",
}

var materialsScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List materials no prim binds",
	Long: `List material prims that no prim binds. Ancestral materials come from
references or instances and cannot be deleted.

Example:
  lightdeck-cli materials scan`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewScanMaterialsCommand(current.materials).Execute(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, m := range result.Unused {
			if m.IsAncestral {
				fmt.Fprintf(out, "%s  (ancestral)\n", m.Path)
			} else {
				fmt.Fprintln(out, m.Path)
			}
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

var deleteAll bool

var materialsDeleteCmd = &cobra.Command{
	Use:   "delete [path...]",
	Short: "Delete unused materials",
	Long: `Delete the given unused materials, or every deletable one with --all.
The batch can be undone with "materials undo".

Examples:
  lightdeck-cli materials delete /World/Looks/Old /World/Looks/Unused
  lightdeck-cli materials delete --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := commands.NewDeleteMaterialsCommand(current.materials, args, deleteAll).Execute(context.Background())
		if err != nil {
			return err
		}
		if err := current.save(); err != nil {
			return fmt.Errorf("%s but saving the stage failed: %w", out.Message, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}

var materialsUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the last deleted batch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := commands.NewUndoDeleteCommand(current.materials).Execute(context.Background())
		if err != nil {
			return err
		}
		if err := current.save(); err != nil {
			return fmt.Errorf("%s but saving the stage failed: %w", out.Message, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out.Message)
		return nil
	},
}

var clearHistory bool

var materialsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the deletion batches that can be undone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewHistoryCommand(current.materials, clearHistory).Execute(context.Background())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, rec := range result.Records {
			fmt.Fprintf(out, "%s  %d material(s)\n", rec.Timestamp.Format("2006-01-02 15:04:05"), len(rec.Paths))
			for _, p := range rec.Paths {
				fmt.Fprintf(out, "  %s\n", p)
			}
		}
		fmt.Fprintln(out, result.Message)
		return nil
	},
}

func init() {
	materialsDeleteCmd.Flags().BoolVarP(&deleteAll, "all", "a", false, "delete every deletable unused material")
	materialsHistoryCmd.Flags().BoolVar(&clearHistory, "clear", false, "drop the whole history")

	materialsCmd.AddCommand(materialsScanCmd, materialsDeleteCmd, materialsUndoCmd, materialsHistoryCmd)
	rootCmd.AddCommand(materialsCmd)
}
