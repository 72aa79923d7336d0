package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nullvm/jattr/internal/attr/container"
	"github.com/nullvm/jattr/internal/browse"
	"github.com/nullvm/jattr/utils"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse [container-file]",
	Short: "Interactively browse a .jatr container's members and records",
	Long: `browse opens a .jatr container and lets you pick a class, method, or
field from a list, then shows that member's decoded attribute records.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".jatr"}, false),
	RunE: func(cmd *cobra.Command, args []string) error {
		return browseContainer(args[0])
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func browseContainer(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer f.Close()

	c, err := container.Read(f)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	p := tea.NewProgram(browse.New(c), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}
