package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/farisarabic/faris-backend/internal/model"
	"github.com/farisarabic/faris-backend/internal/response"
	"github.com/farisarabic/faris-backend/internal/service"
	"github.com/farisarabic/faris-backend/internal/validator"
)

type SettingHandler struct {
	settingService *service.SettingService
	log            zerolog.Logger
}

func NewSettingHandler(settingService *service.SettingService, log zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
		log:            log.With().Str("component", "setting_handler").Logger(),
	}
}

// GetDoctorInfo godoc
// GET /api/v1/public/doctor
func (h *SettingHandler) GetDoctorInfo(c *gin.Context) {
	info, err := h.settingService.DoctorInfo(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doctor": info})
}

// UpdateDoctorCV godoc
// PUT /api/v1/admin/settings/doctor/cv
func (h *SettingHandler) UpdateDoctorCV(c *gin.Context) {
	var req model.UpdateDoctorCVRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	info, err := h.settingService.UpdateDoctorCV(c.Request.Context(), req.CVContent)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doctor": info})
}

// UpdateDoctorImage godoc
// PUT /api/v1/admin/settings/doctor/image
// Accepts a JPEG, PNG or WebP portrait and stores it as WebP.
func (h *SettingHandler) UpdateDoctorImage(c *gin.Context) {
	file, closeFile, ok := upload(c, "image")
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer closeFile()

	info, err := h.settingService.UpdateDoctorImage(c.Request.Context(), file)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doctor": info})
}
