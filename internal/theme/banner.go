// Package theme renders the CLI banner.
package theme

// Banner returns the colored CLI banner.
func Banner() string {
	const cyan = "\033[36m"
	const red = "\033[31m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		red + "  ✈  B O M B A R D I E R  ✈\n" + reset +
		cyan + "   ══╦══════════════╦══\n" + reset +
		cyan + "     ▼   ▼    ▼   ▼\n" + reset +
		yellow + "   ──────────────────────\n" + reset +
		"   profile scoring for targeted outreach\n"
	return art
}
