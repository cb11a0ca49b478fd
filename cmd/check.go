package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/budgetplan/internal/engine"
	"github.com/theirongolddev/budgetplan/internal/request"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Validate budget request files without planning",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	eng, _, err := newEngine()
	if err != nil {
		return err
	}
	opts := eng.Options()

	failed := 0
	for _, path := range args {
		req, err := request.Load(path)
		if err != nil {
			failed++
			fmt.Printf("  FAIL  %s\n        %v\n", path, err)
			continue
		}

		norm, err := engine.Validate(req, opts)
		if err != nil {
			failed++
			fmt.Printf("  FAIL  %s\n", path)
			for _, e := range flattenErrors(err) {
				fmt.Printf("        %v\n", e)
			}
			continue
		}

		cls := engine.Classify(norm, opts)
		fmt.Printf("  ok    %s (%d categories, %d protected, %d reducible)\n",
			path, len(norm.Expenses), len(cls.Protected), len(cls.Reducible))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}

// flattenErrors unpacks an errors.Join result into its parts.
func flattenErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
