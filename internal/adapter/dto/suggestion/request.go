package suggestion

// ToggleRequest flips the selection of one pending suggestion
type ToggleRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}
