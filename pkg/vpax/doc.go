// Package vpax turns a Power BI model export archive (.vpax) into a core.ProcessedData.
//
// An export is a zip container holding up to three JSON documents:
//   - a name document (DaxModel.json) with the model name and refresh timestamps
//   - a model definition (Model.bim) with tables, partitions, columns and measures
//   - a statistics document (DaxVpaView.json) with storage sizes and relationships
//
// Only the model definition is required. Everything else degrades to defaults and is
// reported through the extractor's logger.
package vpax
