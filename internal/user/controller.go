package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type UserController struct {
	userService UserServiceInterface
}

func NewUserController(userService UserServiceInterface) *UserController {
	return &UserController{
		userService: userService,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=1"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterRoutes registers user routes on the given group.
func (ctrl *UserController) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", ctrl.Create)
		users.GET("", ctrl.List)
		users.GET("/:id", ctrl.GetByID)
	}
}

// Create handles user registration. Only input-shape failures are answered here;
// service errors (Conflict included) propagate to the error-handler middleware.
func (ctrl *UserController) Create(c *gin.Context) {
	var req CreateUserRequest

	// Strict shape: unknown body fields are rejected.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := binding.Validator.ValidateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": firstViolationMessage(err)})
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetByID handles fetching a user by its path id.
func (ctrl *UserController) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	if idParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	// Non-numeric input parses to 0, which the service rejects.
	id, err := strconv.Atoi(idParam)
	if err != nil {
		id = 0
	}

	user, err := ctrl.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	// Normally unreachable: the service reports missing users as NotFound errors.
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// List handles listing all users.
func (ctrl *UserController) List(c *gin.Context) {
	users, err := ctrl.userService.ListUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// firstViolationMessage surfaces only the first schema violation.
func firstViolationMessage(err error) string {
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return "Invalid input"
	}

	v := violations[0]
	switch v.Field() {
	case "Name":
		if v.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be at least 1 character long"
	case "Email":
		if v.Tag() == "required" {
			return "Email is required"
		}
		return "Invalid email format"
	case "Password":
		if v.Tag() == "required" {
			return "Password is required"
		}
		return "Password must be at least 6 characters long"
	}
	return "Invalid input"
}
