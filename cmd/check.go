package cmd

import (
	"license-auditor/feature/audit"
	"license-auditor/feature/inventory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	licensePath string
	objectsPath string
	sheetName   string
	outputDir   string
)

// checkCmd audits a license report against an object export.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Find objects that are not covered by the license",
	Long: `Parses the license report, loads the object export and lists every licensed
object in the customization band (50000 - 99999) that no license range covers.
The missing permissions are written to missing-permissions.csv.

Examples:
  # Prompt for the sheet when the workbook has several
  license-auditor check -l license.txt -o objects.xlsx

  # Non-interactive
  license-auditor check -l license.txt -o objects.xlsx --sheet Objects --output-dir out`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&licensePath, "license", "l", "", "License report (text export)")
	checkCmd.Flags().StringVarP(&objectsPath, "objects", "o", "", "Object export (.xlsx or .csv)")
	checkCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read (default: prompt, or first sheet when not interactive)")
	checkCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for missing-permissions.csv (default: audit.output_dir)")
	_ = checkCmd.MarkFlagRequired("license")
	_ = checkCmd.MarkFlagRequired("objects")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	sheet := sheetName
	if sheet == "" {
		sheet = rt.cfg.Audit.Sheet
	}

	outcome, err := rt.service.Check(cmd.Context(), audit.CheckRequest{
		LicensePath: licensePath,
		ObjectsPath: objectsPath,
		Picker:      inventory.DefaultPicker(sheet),
		Out:         cmd.OutOrStdout(),
		OutputDir:   outputDir,
	})
	if err != nil {
		return err
	}

	rt.log.Debug("Check completed", zap.String("run_id", outcome.RunID), zap.String("sheet", outcome.Sheet))
	return nil
}
