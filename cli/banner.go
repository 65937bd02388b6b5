package cli

import (
	"fmt"
	"strings"
)

const bannerWidth = 56

// PrintBanner renders a box-drawing banner around a title.
func PrintBanner(title string) {
	inner := bannerWidth
	if len(title)+2 > inner {
		inner = len(title) + 2
	}

	pad := inner - len(title)
	left := pad / 2

	fmt.Printf("╔%s╗\n", strings.Repeat("═", inner))
	fmt.Printf("║%s%s%s║\n", strings.Repeat(" ", left), title, strings.Repeat(" ", pad-left))
	fmt.Printf("╚%s╝\n", strings.Repeat("═", inner))
}
