// Command companion plays the phone side of the barface link: it encodes
// status lines as dictionary frames for the face to sync.
//
//	companion send "Meeting at 3"  | barface --status --headless
//	tail -f notes.txt | companion stream | barface --status
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	outPath  string
	key      uint32
	truncate bool
)

var rootCmd = &cobra.Command{
	Use:           "companion",
	Short:         "Send status lines to a barface watch",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outPath, "out", "o", "-", "link to write frames to, - for stdout")
	pf.Uint32Var(&key, "key", 0, "dictionary key of the status line")
	pf.BoolVar(&truncate, "truncate", false, "shorten values that do not fit instead of refusing them")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(streamCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printStatus("✗", err.Error(), color.FgRed)
		os.Exit(1)
	}
}

// printStatus writes a colored status line to stderr; stdout may be the link.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Fprintf(os.Stderr, "%s %s\n", c.Sprint(symbol), message)
}
