package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddProductRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	ExternalID  string `json:"external_id" validate:"required,min=1,max=50"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"    validate:"min=0"`
	Location    string `json:"location"    validate:"required,min=1,max=100"`
}

// EditProductRequest replaces every field of an existing product. The
// external id may change (rename), subject to the uniqueness check.
type EditProductRequest struct {
	Name        string `json:"name"        validate:"required,min=1,max=100"`
	ExternalID  string `json:"external_id" validate:"required,min=1,max=50"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"    validate:"min=0"`
	Location    string `json:"location"    validate:"required,min=1,max=100"`
}

type ProductFilter struct {
	Query string `form:"query"` // name substring match, empty = all
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ExternalID  string `json:"external_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Location    string `json:"location"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// MutationResponse carries the human-readable outcome of a catalog write.
type MutationResponse struct {
	Message string           `json:"message"`
	Product *ProductResponse `json:"product,omitempty"`
}
