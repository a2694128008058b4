package main

import (
	"fmt"
	"os"

	"github.com/smartcontractkit/mcms-preview/cmd/mcmspreview"
)

func main() {
	rootCmd := mcmspreview.BuildMCMSPreviewCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
