package server

import (
	"net/http"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/response"
	"github.com/Pavanreddy56/BKI-company/internal/validation"
)

// handlePublicSettings flattens the settings rows into a key→value map
// for the public site.
func (s *Server) handlePublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetAllSettings(r.Context())
	if err != nil {
		s.serverError(w, "list settings", err)
		return
	}
	flat := make(map[string]string, len(settings))
	for _, st := range settings {
		flat[st.Key] = st.Value
	}
	response.JSON(w, http.StatusOK, flat)
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetAllSettings(r.Context())
	if err != nil {
		s.serverError(w, "list settings", err)
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

type upsertSettingRequest struct {
	Value       string  `json:"value"`
	Label       string  `json:"label"`
	Description *string `json:"description"`
}

func (s *Server) handleUpsertSetting(w http.ResponseWriter, r *http.Request, key string) {
	var req upsertSettingRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "label", req.Label)
	validation.ValidateMaxLength(ve, "value", req.Value, validation.MaxStringLength)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	setting := &models.AdminSetting{
		Key:         key,
		Value:       req.Value,
		Label:       req.Label,
		Description: req.Description,
	}
	if err := s.store.UpsertSetting(r.Context(), setting); err != nil {
		s.serverError(w, "upsert setting", err)
		return
	}
	s.hub.BroadcastChange("setting", "update", setting.Key)
	response.JSON(w, http.StatusOK, setting)
}

type bulkSettingsRequest struct {
	Settings []struct {
		Key         string  `json:"key"`
		Value       string  `json:"value"`
		Label       string  `json:"label"`
		Description *string `json:"description"`
	} `json:"settings"`
}

func (s *Server) handleBulkSettings(w http.ResponseWriter, r *http.Request) {
	var req bulkSettingsRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Settings) == 0 {
		response.Err(w, "settings list is empty", http.StatusBadRequest)
		return
	}

	ve := &validation.ValidationErrors{}
	for _, item := range req.Settings {
		validation.RequireField(ve, "key", item.Key)
		validation.RequireField(ve, "label", item.Label)
	}
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}

	out := make([]models.AdminSetting, 0, len(req.Settings))
	for _, item := range req.Settings {
		setting := &models.AdminSetting{
			Key:         item.Key,
			Value:       item.Value,
			Label:       item.Label,
			Description: item.Description,
		}
		if err := s.store.UpsertSetting(r.Context(), setting); err != nil {
			s.serverError(w, "bulk upsert setting", err)
			return
		}
		out = append(out, *setting)
	}
	s.hub.BroadcastChange("setting", "update", "bulk")
	response.JSON(w, http.StatusOK, out)
}
