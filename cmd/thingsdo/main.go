package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"thingsdo-cli/internal/cli"
	"thingsdo-cli/internal/model"
)

// rewriteDirectItemLookupArgs turns `thingsdo <id>` into
// `thingsdo items show <id>`. Cobra would read the id as a subcommand, so
// argv is rewritten before parsing. Persistent flags may come first; the
// first positional token decides.
func rewriteDirectItemLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--format":    true,
	}

	lookup := func(at int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:at]...)
		out = append(out, "items", "show")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isItemID(argv[i+1]) {
				return lookup(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			// Unknown flags are skipped without consuming a value.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isItemID(a):
			return lookup(i)
		default:
			return argv
		}
	}
	return argv
}

func isItemID(s string) bool {
	_, ok := model.KindOfID(s)
	return ok
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
