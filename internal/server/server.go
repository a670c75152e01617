package server

import (
	"net/http"

	"openshelf/library-management/internal/api/controller"
	"openshelf/library-management/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server owns the gin engine and route table.
type Server struct {
	engine *gin.Engine
}

// NewServer wires the controllers and the notification hub into a gin engine.
func NewServer(authController *controller.AuthController, bookController *controller.BookController, userController *controller.UserController, hub *notify.Hub) *Server {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.Use(cors.Default())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to the Library Management System API")
	})

	auth := engine.Group("/api/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/signup", authController.Signup)
	}

	books := engine.Group("/api/books")
	{
		books.GET("", bookController.GetAllBooks)
		books.GET("/borrowed/:userId", bookController.GetBorrowedBooks)
		books.POST("/add", bookController.AddBook)
		books.PUT("/:id", bookController.UpdateBook)
		books.DELETE("/:id", bookController.DeleteBook)

		books.POST("/request", bookController.RequestBook)
		books.POST("/return", bookController.ReturnBook)

		books.GET("/fines/:userId", bookController.CheckFines)
		books.GET("/fines/payments/:userId", bookController.GetFinePayments)
		books.POST("/fines/pay", bookController.PayFines)
	}

	users := engine.Group("/api/users")
	{
		users.GET("/:userId/stats", userController.GetUserStats)
		users.GET("/:userId/profile", userController.GetUserProfile)
		users.PUT("/:userId/profile", userController.UpdateUserProfile)
	}

	if hub != nil {
		engine.GET("/ws", func(c *gin.Context) {
			hub.HandleWS(c.Writer, c.Request)
		})
	}

	return &Server{engine: engine}
}

// Engine exposes the underlying handler for the HTTP server and tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
