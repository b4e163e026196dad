package main

import (
	"os"
	"strings"

	"upi-cli/internal/cli"
)

var subcommands = map[string]bool{
	"blogs":      true,
	"apply":      true,
	"admin":      true,
	"auth":       true,
	"config":     true,
	"docs":       true,
	"help":       true,
	"completion": true,
}

func looksLikeSlug(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || subcommands[s] {
		return false
	}
	// Slugs are kebab-case; anything with a dash that isn't a subcommand
	// reads as a direct post lookup.
	return strings.Contains(s, "-")
}

func rewriteDirectSlugLookupArgs(argv []string) []string {
	// Convenience: `upi <slug>` works like `upi blogs show <slug>`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv
	// before parsing. Users often pass persistent flags first (e.g.
	// `upi --api ... <slug>`), so we must find the first positional token.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--api":       true,
		"--state-dir": true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && looksLikeSlug(argv[i+1]) {
				out := make([]string, 0, len(argv)+2)
				out = append(out, argv[:i+1]...)
				out = append(out, "blogs", "show")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if looksLikeSlug(a) {
			out := make([]string, 0, len(argv)+2)
			out = append(out, argv[:i]...)
			out = append(out, "blogs", "show")
			out = append(out, argv[i:]...)
			return out
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectSlugLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
