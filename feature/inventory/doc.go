// Package inventory loads the exported object inventory.
//
// The export is a workbook (xlsx) or a csv file. The first row is a header;
// every following row holds the object type, the object id and the object
// name. Workbooks with several sheets need a SheetPicker: PromptPicker asks on
// the terminal, FirstSheetPicker and NamedPicker answer without interaction.
package inventory
