package actions

import (
	"fmt"

	"stackit.dev/restack/internal/runtime"
	"stackit.dev/restack/internal/tui"
)

// PrintConflictStatus displays conflict information and instructions to the user
func PrintConflictStatus(ctx *runtime.Context, branchName, onto string) {
	splog := ctx.Splog
	splog.Info("%s", tui.ColorRed(fmt.Sprintf("Hit conflict restacking %s on %s", branchName, onto)))
	splog.Newline()

	unmergedFiles, err := ctx.Git.UnmergedFiles(ctx.Context)
	if err == nil && len(unmergedFiles) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, file := range unmergedFiles {
			splog.Info("%s", tui.ColorRed(file))
		}
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To fix and continue your previous restack command:"))
	splog.Info("(1) resolve the listed merge conflicts")
	splog.Info("(2) mark them as resolved with %s", tui.ColorCyan("git add ."))
	splog.Info("(3) run %s to continue executing your previous restack command", tui.ColorCyan("restack continue"))
	splog.Info("It's safe to cancel the ongoing rebase with %s.", tui.ColorCyan("restack abort"))
}
