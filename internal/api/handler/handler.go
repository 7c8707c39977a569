package handler

import (
	"opsdash/backend/internal/chathub"
	"opsdash/backend/internal/directory"
)

// Handler містить посилання на ChatHub та довідник персоналу.
type Handler struct {
	Hub       *chathub.ManagerService
	Directory directory.Directory
}

func NewHandler(hub *chathub.ManagerService, dir directory.Directory) *Handler {
	return &Handler{Hub: hub, Directory: dir}
}
