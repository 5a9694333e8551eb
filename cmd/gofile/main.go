// Command gofile is a small CLI over the GoFile SDK: inspect the account,
// browse content trees, manage folders and options, and upload files with a
// progress readout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "gofile",
		Short:         "Interact with the gofile.io API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("api-url", "", "override the API endpoint (defaults to GOFILE_API_URL or the public API)")
	root.PersistentFlags().String("zone", "", "preferred upload-server zone")
	root.PersistentFlags().BoolP("verbose", "v", false, "log every API request")

	root.AddCommand(
		newServersCommand(),
		newAccountCommand(),
		newContentCommand(),
		newMkdirCommand(),
		newUploadCommand(),
		newCopyCommand(),
		newRemoveCommand(),
		newSetCommand(),
		newLinkCommand(),
	)
	return root
}
