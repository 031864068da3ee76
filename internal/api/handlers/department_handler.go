package handlers

import (
	"clubhub/internal/dto"
	"clubhub/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DepartmentHandler struct {
	deptService *service.DepartmentService
	logger      *zap.Logger
}

func NewDepartmentHandler(deptService *service.DepartmentService, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		deptService: deptService,
		logger:      logger,
	}
}

// ListDepartments godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.DepartmentResponse
// @Router /api/v1/departments [get]
func (h *DepartmentHandler) ListDepartments(c *fiber.Ctx) error {
	depts, err := h.deptService.List(c.Context())
	if err != nil {
		return serviceError(c, h.logger, err, "List departments")
	}

	resp := make([]dto.DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		resp = append(resp, toDepartmentResponse(d))
	}
	return c.JSON(resp)
}

// CreateDepartment godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Param request body dto.DepartmentRequest true "Department"
// @Security Bearer
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/departments [post]
func (h *DepartmentHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	dept, err := h.deptService.Create(c.Context(), req.Name)
	if err != nil {
		return serviceError(c, h.logger, err, "Create department")
	}

	return c.Status(fiber.StatusCreated).JSON(toDepartmentResponse(dept))
}
