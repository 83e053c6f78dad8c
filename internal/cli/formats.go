package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rajaldebnath/circleator/pkg/annot"
)

// formatsCommand creates the formats command, which lists the
// annotation and sequence formats the render pipeline can read.
func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported annotation file formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := annot.NewRegistry()
			fmt.Println(StyleTitle.Render("Annotation formats"))
			for _, name := range reg.Formats() {
				detail := ""
				if aliases := reg.AliasesOf(name); len(aliases) > 0 {
					detail = "aliases: " + strings.Join(aliases, ", ")
				}
				printKeyValue(name, detail)
			}
		},
	}
}
