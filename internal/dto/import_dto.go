package dto

// BulkImportResponse summarizes one bulk import call. Errors are per-line
// parse failures in file order; they never abort the rest of the batch.
type BulkImportResponse struct {
	Message   string   `json:"message"`
	Succeeded int      `json:"succeeded"`
	Created   int      `json:"created"`
	Merged    int      `json:"merged"`
	Errors    []string `json:"errors"`
}
