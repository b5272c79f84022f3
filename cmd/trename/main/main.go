package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/trename/cmd/trename"
	"github.com/arthur-debert/trename/pkg/errors"
	"github.com/arthur-debert/trename/pkg/ui/styles"
)

func main() {
	rootCmd := trename.NewRootCmd()
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Render(styles.Error, fmt.Sprintf("Error: %v", err)))

		// Usage mistakes come from cobra and carry no error code
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			fmt.Fprintln(os.Stderr)
			_ = cmd.Usage()
		}

		os.Exit(1)
	}
}
