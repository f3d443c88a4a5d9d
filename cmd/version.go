package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/deck-diff/internal/app"

	"github.com/spf13/cobra"
)

func init() {
	var versionCommand = &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("deck-diff %s", internalApp.Version)
			if internalApp.GitTag != "" {
				fmt.Printf(" (%s)", internalApp.GitTag)
			}
			if internalApp.BuildTime != "" {
				fmt.Printf(" built %s", internalApp.BuildTime)
			}
			fmt.Println()
		},
	}
	rootCmd.AddCommand(versionCommand)
}
