package views

import "courtdesk/internal/models"

// SettingsView is the read-only profile projection of the current session.
type SettingsView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func BuildSettings(sess models.Session) SettingsView {
	return SettingsView{
		Name:  sess.User.Name,
		Email: sess.User.Email,
		Role:  sess.User.Role,
	}
}
