// Package config loads the License Auditor configuration.
//
// Values come from an optional .env file and the process environment, mapped
// onto nested keys (DATABASE_DRIVER -> database.driver). Defaults are declared
// on the section structs with `default` tags.
//
// Sections:
//   - Audit: output directory and default sheet for the check command
//   - Server: HTTP port, API key and upload limit
//   - Storage: S3/MinIO publishing of the artifact
//   - Log: level and format
//   - Database: run history (sqlite or mysql)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Audit.OutputDir)
package config
