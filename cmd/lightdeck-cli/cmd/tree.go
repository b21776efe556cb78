package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lightdeck/internal/application/commands"
	"lightdeck/internal/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: "Display the stage hierarchy",
	Long: `Display the prim hierarchy of the stage, or of the subtree at path.

Examples:
  lightdeck-cli tree
  lightdeck-cli tree /World/lights`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := ""
		if len(args) == 1 {
			root = args[0]
		}
		node, err := commands.NewTreeCommand(current.stage, root).Execute(context.Background())
		if err != nil {
			return err
		}
		printTree(cmd.OutOrStdout(), node, 0)
		return nil
	},
}

func printTree(w io.Writer, node *domain.TreeNode, depth int) {
	if node.Path == "/" {
		for _, child := range node.Children {
			printTree(w, child, depth)
		}
		return
	}

	indent := strings.Repeat("  ", depth)
	if node.Type == domain.TypeNone {
		fmt.Fprintf(w, "%s%s\n", indent, node.Name)
	} else {
		fmt.Fprintf(w, "%s%s (%s)\n", indent, node.Name, node.Type)
	}
	for _, child := range node.Children {
		printTree(w, child, depth+1)
	}
}

func init() {
	rootCmd.AddCommand(treeCmd)
}
