package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chat-relay/internal/database"
	"chat-relay/internal/models"
	"chat-relay/internal/services"
	"chat-relay/pkg/logger"
)

type RoomHandlers struct {
	roomService   *services.RoomService
	adminUsername string
}

func NewRoomHandlers(roomService *services.RoomService, adminUsername string) *RoomHandlers {
	return &RoomHandlers{
		roomService:   roomService,
		adminUsername: adminUsername,
	}
}

func (h *RoomHandlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.ListRooms(r.Context())
	if err != nil {
		logger.Error("List rooms error: %v", err)
		http.Error(w, "error fetching rooms", http.StatusInternalServerError)
		return
	}
	if rooms == nil {
		rooms = []*models.Room{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rooms)
}

func (h *RoomHandlers) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), &req)
	if err != nil {
		if !errors.Is(err, database.ErrDuplicateRoom) {
			logger.Error("Create room error: %v", err)
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(room)
}

// DeleteRoom removes a room and its message history. Only the configured
// admin username may delete; the username is client-declared, which is the
// whole extent of authorization here.
func (h *RoomHandlers) DeleteRoom(w http.ResponseWriter, r *http.Request, name string) {
	username := r.Header.Get("X-Username")
	if username == "" {
		username = r.URL.Query().Get("username")
	}
	if username != h.adminUsername {
		http.Error(w, "only the admin can delete rooms", http.StatusForbidden)
		return
	}

	if err := h.roomService.DeleteRoom(r.Context(), name); err != nil {
		if errors.Is(err, database.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		logger.Error("Delete room error: %v", err)
		http.Error(w, "error deleting room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "room deleted successfully"})
}

func (h *RoomHandlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
