package controller

import (
	"log/slog"
	"net/http"
	"strconv"

	"openshelf/library-management/internal/api/models"
	"openshelf/library-management/internal/api/response"
	"openshelf/library-management/internal/api/service"

	"github.com/gin-gonic/gin"
)

// BookController handles catalog, loan and fine endpoints.
type BookController struct {
	bookService service.BookService
	loanService service.LoanService
	fineService service.FineService
}

// NewBookController creates a new BookController.
func NewBookController(bookService service.BookService, loanService service.LoanService, fineService service.FineService) *BookController {
	return &BookController{
		bookService: bookService,
		loanService: loanService,
		fineService: fineService,
	}
}

// GetAllBooks returns the full catalog; filtering is done client-side.
func (bc *BookController) GetAllBooks(c *gin.Context) {
	books, err := bc.bookService.List(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to fetch books", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch books. Please try again later.")
		return
	}
	response.SuccessPayload(c, books)
}

// GetBorrowedBooks lists the user's active loans.
func (bc *BookController) GetBorrowedBooks(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	books, err := bc.loanService.Borrowed(c.Request.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to fetch borrowed books", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch borrowed books")
		return
	}
	response.SuccessPayload(c, books)
}

// AddBook creates a catalog entry. Zero available copies is valid; a missing
// count is not.
func (bc *BookController) AddBook(c *gin.Context) {
	var req models.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest,
			"Please provide all required fields: isbn, title, author, available_copies, and branch_name")
		return
	}

	result, err := bc.bookService.Add(c.Request.Context(), &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to add book", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to add book. Please try again later.")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": result.Message,
		"bookId":  result.BookID,
	})
}

// UpdateBook rewrites every field of a catalog entry.
func (bc *BookController) UpdateBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := bc.bookService.Update(c.Request.Context(), bookID, &req)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to update book", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to update book. Please try again later.")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}
	response.SuccessResponse(c, http.StatusOK, result.Message)
}

// DeleteBook removes a catalog entry unless open loans reference it.
func (bc *BookController) DeleteBook(c *gin.Context) {
	bookID, ok := paramID(c, "id")
	if !ok {
		return
	}

	result, err := bc.bookService.Delete(c.Request.Context(), bookID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to delete book", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete book. Please try again later.")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}
	response.SuccessResponse(c, http.StatusOK, result.Message)
}

// RequestBook creates a loan at the requesting user's branch.
func (bc *BookController) RequestBook(c *gin.Context) {
	var req models.RequestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := bc.loanService.Request(c.Request.Context(), req.UserID, req.BookID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to request book", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error while requesting book")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}
	response.SuccessResponse(c, http.StatusOK, result.Message)
}

// ReturnBook closes a loan. The outcome is relayed with HTTP 200 whether or
// not the return succeeded; the caller must check the success flag. The
// response always carries a fineAmount.
func (bc *BookController) ReturnBook(c *gin.Context) {
	var req models.ReturnBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := bc.loanService.Return(c.Request.Context(), req.IssueID, req.BookID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to return book", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    result.Success,
		"message":    result.Message,
		"fineAmount": result.FineAmount,
	})
}

// CheckFines returns the user's outstanding fine total.
func (bc *BookController) CheckFines(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	fines, err := bc.fineService.Check(c.Request.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to check fines", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error while checking fines")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "fines": fines})
}

// GetFinePayments returns the user's payment history.
func (bc *BookController) GetFinePayments(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	payments, err := bc.fineService.Payments(c.Request.Context(), userID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to fetch fine payments", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error while fetching payment history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments})
}

// PayFines applies a payment toward the user's outstanding fines.
func (bc *BookController) PayFines(c *gin.Context) {
	var req models.PayFinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid payment amount")
		return
	}

	result, err := bc.fineService.Pay(c.Request.Context(), req.UserID, req.Amount)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to pay fines", "error", err)
		response.ErrorResponse(c, http.StatusInternalServerError, "Server error while paying fines")
		return
	}
	if !result.Success {
		response.ErrorResponse(c, http.StatusBadRequest, result.Message)
		return
	}
	response.SuccessResponse(c, http.StatusOK, result.Message)
}

// paramID parses a positive integer path parameter, replying 400 on failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorResponse(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
