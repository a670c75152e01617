package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"openshelf/library-management/internal/api/controller"
	"openshelf/library-management/internal/api/service"
	"openshelf/library-management/internal/api/service/mocks"
	"openshelf/library-management/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServices struct {
	auth *mocks.MockAuthService
	book *mocks.MockBookService
	loan *mocks.MockLoanService
	fine *mocks.MockFineService
	user *mocks.MockUserService
}

func newTestRouter(t *testing.T) (*gin.Engine, *testServices) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svcs := &testServices{
		auth: mocks.NewMockAuthService(ctrl),
		book: mocks.NewMockBookService(ctrl),
		loan: mocks.NewMockLoanService(ctrl),
		fine: mocks.NewMockFineService(ctrl),
		user: mocks.NewMockUserService(ctrl),
	}

	srv := server.NewServer(
		controller.NewAuthController(svcs.auth),
		controller.NewBookController(svcs.book, svcs.loan, svcs.fine),
		controller.NewUserController(svcs.user),
		nil,
	)
	return srv.Engine(), svcs
}

func doRequest(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLogin(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.auth.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(&service.LoginResult{Success: true, UserID: 7, CardNo: "LIB-ABCD1234", Token: "tok"}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/auth/login", `{"username":"ada","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(7), body["userId"])
	require.Equal(t, "LIB-ABCD1234", body["cardNo"])
	require.Equal(t, "tok", body["token"])
	require.Equal(t, "Login successful", body["message"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.auth.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(&service.LoginResult{Success: false}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/auth/login", `{"username":"ada","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Invalid credentials", body["message"])
}

func TestLoginMissingFields(t *testing.T) {
	engine, _ := newTestRouter(t)

	// No service expectation: binding fails before the service is reached.
	rec := doRequest(t, engine, http.MethodPost, "/api/auth/login", `{"username":"ada"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupRejection(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.auth.EXPECT().Signup(gomock.Any(), gomock.Any()).
		Return(&service.Result{Success: false, Message: "Username is already taken"}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/auth/signup",
		`{"name":"Ada","username":"ada","password":"pw"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Username is already taken", decodeBody(t, rec)["message"])
}

func TestAddBookMissingFields(t *testing.T) {
	engine, _ := newTestRouter(t)

	// available_copies is absent, which must be distinguishable from zero.
	rec := doRequest(t, engine, http.MethodPost, "/api/books/add",
		`{"isbn":"978-0441013593","title":"Dune","author":"Frank Herbert","branch_name":"Central"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t,
		"Please provide all required fields: isbn, title, author, available_copies, and branch_name",
		decodeBody(t, rec)["message"])
}

func TestAddBookZeroCopies(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.book.EXPECT().Add(gomock.Any(), gomock.Any()).
		Return(&service.AddBookResult{Success: true, Message: "Book added successfully", BookID: 12}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/books/add",
		`{"isbn":"978-0441013593","title":"Dune","author":"Frank Herbert","available_copies":0,"branch_name":"Central"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, float64(12), body["bookId"])
}

func TestReturnBookReportsFineOnRejection(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.loan.EXPECT().Return(gomock.Any(), int64(5), int64(9)).
		Return(&service.ReturnResult{Success: false, Message: "Issue record not found"}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/books/return", `{"issueId":5,"bookId":9}`)
	// Business rejections on return still reply 200; the body carries the outcome.
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, "Issue record not found", body["message"])
	require.Contains(t, body, "fineAmount")
	require.Equal(t, float64(0), body["fineAmount"])
}

func TestReturnBookLate(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.loan.EXPECT().Return(gomock.Any(), int64(5), int64(9)).
		Return(&service.ReturnResult{Success: true, Message: "Book returned 2 day(s) late", FineAmount: 0.50}, nil)

	rec := doRequest(t, engine, http.MethodPost, "/api/books/return", `{"issueId":5,"bookId":9}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, 0.50, body["fineAmount"])
}

func TestPayFinesInvalidBody(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodPost, "/api/books/fines/pay", `{"userId":1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid payment amount", decodeBody(t, rec)["message"])
}

func TestCheckFines(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.fine.EXPECT().Check(gomock.Any(), int64(3)).Return(1.25, nil)

	rec := doRequest(t, engine, http.MethodGet, "/api/books/fines/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Equal(t, 1.25, body["fines"])
}

func TestGetUserProfileNotFound(t *testing.T) {
	engine, svcs := newTestRouter(t)

	svcs.user.EXPECT().Profile(gomock.Any(), int64(42)).Return(nil, nil)

	rec := doRequest(t, engine, http.MethodGet, "/api/users/42/profile", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "User not found", decodeBody(t, rec)["message"])
}

func TestInvalidUserIDParam(t *testing.T) {
	engine, _ := newTestRouter(t)

	rec := doRequest(t, engine, http.MethodGet, "/api/users/abc/stats", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid userId", decodeBody(t, rec)["message"])
}
