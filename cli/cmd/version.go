package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/weft/pkg"
)

// Version prints the version and author information.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	w := stdout(ctx)

	fmt.Fprintf(w, "%s %s\n", pkg.Name, strings.TrimSpace(pkg.Version))

	for _, a := range pkg.Author {
		fmt.Fprintf(w, "  %s <%s>\n", a.Name, a.Email)
	}

	return nil
}
