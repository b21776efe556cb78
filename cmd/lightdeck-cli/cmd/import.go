package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lightdeck/internal/adapters/filesystem"
	"lightdeck/internal/adapters/gltfimport"
)

var importCmd = &cobra.Command{
	Use:   "import <gltf> [stage]",
	Short: "Import a glTF scene into a stage",
	Long: `Import the node hierarchy, materials and punctual lights of a .gltf or
.glb file. Materials land under /World/Looks and stay unbound, so a
later "materials scan" finds the ones no mesh uses. The target stage
defaults to --stage and is created when missing.

Examples:
  lightdeck-cli import office.glb
  lightdeck-cli import office.gltf scenes/office.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, stage := current.repo, current.stage
		if len(args) == 2 {
			repo = filesystem.NewRepository(args[1])
			var err error
			if stage, err = repo.Load(); err != nil {
				return err
			}
		}

		result, err := gltfimport.NewImporter(stage, current.logger).ImportFile(args[0])
		if err != nil {
			return err
		}
		if err := repo.Save(stage); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prim(s): %d mesh(es), %d material(s), %d light(s) into %s\n",
			result.Prims, result.Meshes, result.Materials, result.Lights, repo.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
