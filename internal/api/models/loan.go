package models

import "time"

// Issue is a loan record linking a user and a book. An open loan has a NULL
// return_date.
type Issue struct {
	IssueID    int64      `db:"issue_id"`
	UserID     int64      `db:"user_id"`
	BookID     int64      `db:"book_id"`
	BranchName string     `db:"branch_name"`
	IssueDate  time.Time  `db:"issue_date"`
	DueDate    time.Time  `db:"due_date"`
	ReturnDate *time.Time `db:"return_date"`
}

// Open reports whether the loan is still active.
func (i *Issue) Open() bool {
	return i.ReturnDate == nil
}

// BorrowedBook is one row of the active-loans listing, joined with the
// catalog for display.
type BorrowedBook struct {
	IssueID   int64     `db:"issue_id" json:"issue_id"`
	BookID    int64     `db:"book_id" json:"book_id"`
	ISBN      string    `db:"isbn" json:"isbn"`
	Title     string    `db:"title" json:"title"`
	Author    string    `db:"author" json:"author"`
	IssueDate time.Time `db:"issue_date" json:"issue_date"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
}

// OpenLoan is the worker's view of an active loan.
type OpenLoan struct {
	IssueID int64     `db:"issue_id"`
	UserID  int64     `db:"user_id"`
	BookID  int64     `db:"book_id"`
	Title   string    `db:"title"`
	DueDate time.Time `db:"due_date"`
}

// RequestBookRequest creates a loan for the user's own branch.
type RequestBookRequest struct {
	UserID int64 `json:"userId" binding:"required"`
	BookID int64 `json:"bookId" binding:"required"`
}

// ReturnBookRequest closes a loan. The issue must reference the given book.
type ReturnBookRequest struct {
	IssueID int64 `json:"issueId" binding:"required"`
	BookID  int64 `json:"bookId" binding:"required"`
}

// IsOverdue reports whether a loan due at dueDate is overdue at now. Overdue
// is always derived at read time, never stored.
func IsOverdue(dueDate, now time.Time) bool {
	return now.After(dueDate)
}

// DaysLate returns the number of whole days a return at now is past dueDate,
// rounding any partial day up. Returns 0 for on-time returns.
func DaysLate(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	late := now.Sub(dueDate)
	days := int(late / (24 * time.Hour))
	if late%(24*time.Hour) > 0 {
		days++
	}
	return days
}
