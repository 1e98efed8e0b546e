package app

import (
	"os"

	"github.com/spf13/cobra"

	"khetao.com/clikit/option"
)

// Command wraps the tool in a cobra command so it can be mounted in an
// existing cobra tree. Cobra's own flag parsing is disabled: all arguments
// go to the tool's option parser. -help and -version end the command
// successfully.
func (a *App) Command() *cobra.Command {
	return &cobra.Command{
		Use:                a.name,
		Short:              a.description,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out = cmd.OutOrStdout()
			program := a.name
			if len(os.Args) > 0 {
				program = os.Args[0]
			}
			err := a.Execute(append([]string{program}, args...))
			if he, ok := option.IsHalt(err); ok && he.Code() == 0 {
				return nil
			}
			return err
		},
	}
}
