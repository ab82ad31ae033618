package main

import (
	"os"
	"strings"

	"platedash/internal/cli"
	"platedash/internal/model"
)

// rewriteDirectPlateLookupArgs makes `platedash <id>` behave like
// `platedash plates show <id>`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing. Persistent flags may come
// first, so the rewrite targets the first positional token, not argv[1].
func rewriteDirectPlateLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value so the id is never eaten.
	valueFlags := map[string]bool{
		"--api":    true,
		"--format": true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "plates", "show")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// `platedash -- 3` => `platedash plates show -- 3`
			if i+1 < len(argv) {
				if _, ok := model.ParseID(argv[i+1]); ok {
					return rewrite(i)
				}
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if _, ok := model.ParseID(a); ok {
			return rewrite(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectPlateLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
