package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// confirmWrite guards writes to paths the user may already own. A missing
// target needs no confirmation; an existing file is only replaced after an
// interactive yes, unless prompts are disabled via --dangerous-inline.
func confirmWrite(cmd *cobra.Command, skipPrompts bool, target string) error {
	info, err := os.Stat(target)
	switch {
	case os.IsNotExist(err):
		return nil
	case err != nil:
		return fmt.Errorf("stat write target %s: %w", target, err)
	case info.IsDir():
		return fmt.Errorf("refusing to write %s: target is a directory", target)
	}

	if skipPrompts {
		return nil
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists and will be replaced.\n", target)
	if !askYesNo(cmd, "Replace it?") {
		return fmt.Errorf("kept %s untouched (pass --dangerous-inline to skip prompts)", target)
	}
	return nil
}

// askYesNo reads one line from the command's stdin; anything but an explicit
// yes counts as no.
func askYesNo(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", question)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
