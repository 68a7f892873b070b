package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/komiteku/komite-backend/internal/core/ports/services"
	"github.com/komiteku/komite-backend/internal/dto"
	"github.com/komiteku/komite-backend/internal/middleware"
)

// studentHandler handles HTTP requests for the roster.
type studentHandler struct {
	studentService portssvc.StudentSvcFacade
	paymentService portssvc.PaymentSvcFacade
}

// newStudentHandler creates a new studentHandler.
func newStudentHandler(studentService portssvc.StudentSvcFacade, paymentService portssvc.PaymentSvcFacade) *studentHandler {
	return &studentHandler{
		studentService: studentService,
		paymentService: paymentService,
	}
}

// registerStudentRoutes sets up the roster routes. Mutations are reserved
// for admins; reads are available to any authenticated user.
func registerStudentRoutes(rg *gin.RouterGroup, studentService portssvc.StudentSvcFacade, paymentService portssvc.PaymentSvcFacade) {
	h := newStudentHandler(studentService, paymentService)

	students := rg.Group("/students")
	{
		students.GET("", h.listStudents)
		students.GET("/classes", h.listClassNames)
		students.GET("/:studentID", h.getStudent)
		students.GET("/:studentID/balance", h.getStudentBalance)

		admin := students.Group("", middleware.RequireAdmin())
		{
			admin.POST("", h.createStudent)
			admin.POST("/import", h.importStudentsCSV)
			admin.PUT("/:studentID", h.updateStudent)
			admin.DELETE("/:studentID", h.deleteStudent)
		}
	}
}

// createStudent adds a student to the roster.
func (h *studentHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToStudentResponse(student))
}

// importStudentsCSV bulk-creates students from an uploaded CSV file.
func (h *studentHandler) importStudentsCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("CSV import request missing file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A CSV file is required in the 'file' field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	imported, err := h.studentService.ImportStudentsCSV(c.Request.Context(), file, creatorUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ImportStudentsResponse{Imported: imported})
}

// listStudents returns roster entries, optionally filtered by class.
func (h *studentHandler) listStudents(c *gin.Context) {
	var classNames []string
	if class := c.Query("className"); class != "" {
		classNames = []string{class}
	}

	students, err := h.studentService.ListStudents(c.Request.Context(), classNames)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponses(students))
}

// listClassNames returns the distinct class names on the roster.
func (h *studentHandler) listClassNames(c *gin.Context) {
	classes, err := h.studentService.ListClassNames(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

// getStudent returns one roster entry.
func (h *studentHandler) getStudent(c *gin.Context) {
	student, err := h.studentService.GetStudentByID(c.Request.Context(), c.Param("studentID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// getStudentBalance returns the derived balance view for one student.
func (h *studentHandler) getStudentBalance(c *gin.Context) {
	studentID := c.Param("studentID")

	balance, err := h.paymentService.GetStudentBalance(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentBalanceResponse(studentID, *balance))
}

// updateStudent changes a student's roster fields, including the target.
func (h *studentHandler) updateStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	studentID := c.Param("studentID")

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateStudent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), studentID, req, updaterUserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// deleteStudent removes a student without payment history from the roster.
func (h *studentHandler) deleteStudent(c *gin.Context) {
	if err := h.studentService.DeleteStudent(c.Request.Context(), c.Param("studentID")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
