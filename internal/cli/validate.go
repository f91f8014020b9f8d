package cli

import (
	"fmt"
	"os"

	"github.com/bcbuild/baseline/internal/appsourcecop"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check AppSourceCop.json against the manifest schema",
	Long: `Validate an AppSourceCop.json file. The path may name the file or the
extension folder that holds it; it defaults to the current folder.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = appsourcecop.Path(path)
	}

	result, err := appsourcecop.ValidateFile(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "%s is valid\n", path)
		return nil
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "  %s\n", issue)
	}
	return fmt.Errorf("%s: %d schema violation(s)", path, len(result.Issues))
}
