package model

import "time"

// Setting keys for the doctor profile shown on the public pages.
const (
	SettingDoctorCV        = "doctor_cv"
	SettingDoctorImageURL  = "doctor_profile_image"
	SettingDoctorImagePath = "doctor_profile_image_path"
)

// AppSetting represents a key-value pair for global application configuration.
type AppSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DoctorInfo is the public view of the doctor settings.
type DoctorInfo struct {
	CVContent    string `json:"cv_content"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// UpdateDoctorCVRequest replaces the doctor's CV text.
type UpdateDoctorCVRequest struct {
	CVContent string `json:"cv_content" binding:"required,min=20,max=20000"`
}
