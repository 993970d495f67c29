package audit

// Config holds defaults for audit runs.
type Config struct {
	// OutputDir is where the check command writes missing-permissions.csv.
	OutputDir string `mapstructure:"output_dir" default:"."`
	// Sheet preselects the inventory sheet. Empty means prompt or first sheet.
	Sheet string `mapstructure:"sheet" default:""`
	// HistoryLimit is the default number of runs listed.
	HistoryLimit int `mapstructure:"history_limit" default:"20"`
}
