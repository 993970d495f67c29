// Package license extracts licensed object ranges from a detailed permission
// report and provides the built-in customization ranges every license grants.
//
// # Report Layout
//
// The report is plain text in Windows-1252. The relevant table starts after a
// line reading exactly "Object Assignment", followed by four header lines, and
// ends at a line reading exactly "Module Objects and Permissions". Each data
// line has five whitespace separated fields:
//
//	Codeunit    50    70000    70049    X
//
// object type, quantity (ignored, re-derived from the bounds), first id, last
// id and permission codes. Any other shape is rejected.
//
// # Usage
//
//	ranges, err := license.ParseFile("license.txt")
//	if err != nil {
//	    return err
//	}
package license
