package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var quiet bool

	rootCmd := &cobra.Command{
		Use:   "restack",
		Short: "restack keeps stacks of dependent branches rebased on each other",
		Long: `restack records which branch each of your branches is stacked on and
replays them onto their parents when the parents move.

Operations that stop at a rebase conflict can be resumed with 'restack continue'
or abandoned with 'restack abort'.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print warnings and errors")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newTrackCmd())
	rootCmd.AddCommand(newCreateCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newOntoCmd())
	rootCmd.AddCommand(newRestackCmd())
	rootCmd.AddCommand(newContinueCmd())
	rootCmd.AddCommand(newAbortCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newRepoCmd())

	return rootCmd
}
