package cmd

import (
	"fmt"
	"os"

	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/attr/cursor"
	"github.com/nullvm/jattr/internal/attr/iter"
	"github.com/nullvm/jattr/internal/attr/model"
	"github.com/nullvm/jattr/utils"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [container-file]",
	Short: "Print every member's attribute records in a .jatr container",
	Long: `dump reads a .jatr container and walks each
member's attribute stream with the raw iterator, printing each record's
tag and resolved string fields. It never resolves classes or constructs
annotation proxies — no host collaborators are needed for this view,
only the stream grammar itself.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".jatr"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dumpContainer(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func dumpContainer(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer f.Close()

	c, err := container.Read(f)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}

	for _, member := range c.Members {
		fmt.Printf("%s %s:\n", member.Kind, member.Name)
		cur := cursor.New(member.Stream, c.Pool)
		err := iter.Iterate(cur, func(tag model.AttributeTag, rec *cursor.Cursor) (bool, error) {
			fmt.Printf("  %s\n", model.Describe(tag, rec))
			return true, nil
		})
		if err != nil {
			return fmt.Errorf("dump: %s %s: %w", member.Kind, member.Name, err)
		}
	}
	return nil
}
