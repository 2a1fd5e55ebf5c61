// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/app/services"
)

// Controllers holds all controller instances
type Controllers struct {
	AuthController    *AuthController
	TeamController    *TeamController
	MentorController  *MentorController
	ProjectController *ProjectController
	AdminController   *AdminController
}

// NewControllers wires the controllers onto the services
func NewControllers(svcs *services.Services, logger zerolog.Logger) *Controllers {
	return &Controllers{
		AuthController:    NewAuthController(svcs.AuthService, logger),
		TeamController:    NewTeamController(svcs.PairingService, svcs.MentorAssignmentService, logger),
		MentorController:  NewMentorController(svcs.MentorService, svcs.MentorAssignmentService, svcs.ProjectService, logger),
		ProjectController: NewProjectController(svcs.ProjectService, logger),
		AdminController:   NewAdminController(svcs.AdminService, logger),
	}
}

// parseIDParam reads a numeric path parameter, responding with 400 on failure.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, responding with 400 on failure.
func bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}

// currentUserID reads the authenticated user ID set by the JWT middleware.
func currentUserID(ctx *gin.Context) (int64, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	userID, ok := value.(int64)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return userID, true
}
