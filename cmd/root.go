package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jattr",
	Short: "Decode JVM class attribute streams",
	Long:  `jattr decodes precompiled JVM class-attribute streams — signatures, annotations, inner classes, enclosing methods — without a running JVM.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}
