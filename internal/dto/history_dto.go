package dto

// HistoryEntryItem is one row in the user's action history (newest first).
type HistoryEntryItem struct {
	ID                 string  `json:"id"`
	Action             string  `json:"action"`
	ProductName        string  `json:"product_name"`
	ProductExternalID  string  `json:"product_external_id"`
	ProductDescription string  `json:"product_description"`
	ProductQuantity    int     `json:"product_quantity"`
	ProductLocation    string  `json:"product_location"`
	BulkGroupID        *string `json:"bulk_group_id,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// HistoryListResponse is returned by GET /v1/history.
type HistoryListResponse struct {
	Data  []HistoryEntryItem `json:"data"`
	Total int64              `json:"total"`
}

// UndoResponse reports what a POST /v1/undo reversed.
type UndoResponse struct {
	Message string `json:"message"`
	// Action is the kind of the reversed entry; empty when there was
	// nothing to undo.
	Action string `json:"action,omitempty"`
	// ExternalIDs lists every product the reversal touched — one element
	// for single undos, one per surviving group entry for bulk undos.
	ExternalIDs []string `json:"external_ids,omitempty"`
}
