package service

// Result is the structured outcome of a domain operation, mirroring the
// success/message output-parameter contract the legacy stored procedures
// exposed. A false Success is a business rejection, not an error.
type Result struct {
	Success bool
	Message string
}

func rejected(message string) *Result {
	return &Result{Success: false, Message: message}
}

func ok(message string) *Result {
	return &Result{Success: true, Message: message}
}

// LoginResult carries the identifiers a successful login returns.
type LoginResult struct {
	Success bool
	UserID  int64
	CardNo  string
	Token   string
}

// AddBookResult carries the generated id of a created catalog entry.
type AddBookResult struct {
	Success bool
	Message string
	BookID  int64
}

// ReturnResult always carries a fine amount, zero for on-time returns.
type ReturnResult struct {
	Success    bool
	Message    string
	FineAmount float64
}
