package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/domain"
	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/theme"
)

var themeCSS bool

var themeCmd = &cobra.Command{
	Use:   "theme <hex>...",
	Short: "Convert brand colors to HSL triples",
	Long: `Prints the "H S% L%" triple of each hex color.

With --css the arguments are read as primary, secondary and accent and the
full set of custom properties, over the base palette, is printed as a
:root block.

Example:
  intellicor theme "#0D214F" "#5A7A9E"
  intellicor theme --css "#1B4332" "#52B788"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTheme,
}

func init() {
	themeCmd.Flags().BoolVar(&themeCSS, "css", false, "print the derived :root custom properties")
}

func runTheme(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !themeCSS {
		for _, hex := range args {
			fmt.Fprintf(out, "%s\t%s\n", hex, theme.HexToHSL(hex))
		}
		return nil
	}

	if len(args) > 3 {
		return fmt.Errorf("--css takes at most 3 colors, got %d", len(args))
	}
	colors := domain.ThemeColors{Primary: args[0]}
	if len(args) > 1 {
		colors.Secondary = args[1]
	}
	if len(args) > 2 {
		colors.Accent = args[2]
	}

	tc := theme.NewContext(colors)
	defer tc.Release()

	fmt.Fprintln(out, tc.CSS())
	return nil
}
