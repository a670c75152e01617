package models

// Book is a catalog entry. Copies are tracked per branch.
type Book struct {
	BookID          int64   `db:"book_id" json:"book_id"`
	ISBN            string  `db:"isbn" json:"isbn"`
	Title           string  `db:"title" json:"title"`
	Author          string  `db:"author" json:"author"`
	AvailableCopies int     `db:"available_copies" json:"available_copies"`
	BranchName      string  `db:"branch_name" json:"branch_name"`
	LostCost        float64 `db:"lost_cost" json:"lost_cost"`
}

// AddBookRequest defines the payload for creating a catalog entry.
// AvailableCopies is a pointer so that zero is accepted while a missing field
// is still rejected.
type AddBookRequest struct {
	ISBN            string  `json:"isbn" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Author          string  `json:"author" binding:"required"`
	AvailableCopies *int    `json:"available_copies" binding:"required,min=0"`
	BranchName      string  `json:"branch_name" binding:"required"`
	LostCost        float64 `json:"lost_cost"`
}

// UpdateBookRequest carries a full-field update; there are no partial-patch
// semantics.
type UpdateBookRequest struct {
	ISBN            string `json:"isbn" binding:"required"`
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author" binding:"required"`
	AvailableCopies *int   `json:"available_copies" binding:"required,min=0"`
	BranchName      string `json:"branch_name" binding:"required"`
}
