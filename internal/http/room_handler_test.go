package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/bookme/internal/application"
)

type stubRoomService struct {
	create func(ctx context.Context, params application.CreateRoomParams) (application.Room, error)
	update func(ctx context.Context, params application.UpdateRoomParams) (application.Room, error)
	get    func(ctx context.Context, principal application.Principal, roomID string) (application.Room, error)
	list   func(ctx context.Context, principal application.Principal) ([]application.Room, error)
	del    func(ctx context.Context, principal application.Principal, roomID string) error
}

func (s *stubRoomService) CreateRoom(ctx context.Context, params application.CreateRoomParams) (application.Room, error) {
	return s.create(ctx, params)
}

func (s *stubRoomService) UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (application.Room, error) {
	return s.update(ctx, params)
}

func (s *stubRoomService) GetRoom(ctx context.Context, principal application.Principal, roomID string) (application.Room, error) {
	return s.get(ctx, principal, roomID)
}

func (s *stubRoomService) ListRooms(ctx context.Context, principal application.Principal) ([]application.Room, error) {
	return s.list(ctx, principal)
}

func (s *stubRoomService) DeleteRoom(ctx context.Context, principal application.Principal, roomID string) error {
	return s.del(ctx, principal, roomID)
}

func roomRouter(service *stubRoomService) nethttp.Handler {
	return NewRouter(RouterConfig{Rooms: NewRoomHandler(service, nil)})
}

func sampleRoom() application.Room {
	return application.Room{
		ID:        "room-1",
		Name:      "Room 1",
		Location:  "Thessaloniki",
		Capacity:  50,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

const createRoomBody = `{"name": "Room 1", "location": "Thessaloniki", "capacity": 50}`

func TestRoomCreate(t *testing.T) {
	var captured application.CreateRoomParams
	service := &stubRoomService{
		create: func(_ context.Context, params application.CreateRoomParams) (application.Room, error) {
			captured = params
			return sampleRoom(), nil
		},
	}

	req := httptest.NewRequest(nethttp.MethodPost, "/meeting-rooms", strings.NewReader(createRoomBody))
	req = req.WithContext(ContextWithPrincipal(req.Context(), application.Principal{Username: "root", IsAdmin: true}))
	rec := httptest.NewRecorder()

	roomRouter(service).ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !captured.Principal.IsAdmin {
		t.Error("expected admin principal to be forwarded")
	}
	if captured.Input.Name == nil || *captured.Input.Name != "Room 1" {
		t.Errorf("unexpected input: %+v", captured.Input)
	}

	var dto roomDTO
	if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dto.ID != "room-1" || dto.Capacity != 50 {
		t.Errorf("unexpected response: %+v", dto)
	}
}

func TestRoomCreateUnauthorized(t *testing.T) {
	service := &stubRoomService{
		create: func(context.Context, application.CreateRoomParams) (application.Room, error) {
			return application.Room{}, application.ErrUnauthorized
		},
	}

	req := httptest.NewRequest(nethttp.MethodPost, "/meeting-rooms", strings.NewReader(createRoomBody))
	rec := httptest.NewRecorder()

	roomRouter(service).ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRoomCreateDuplicate(t *testing.T) {
	service := &stubRoomService{
		create: func(context.Context, application.CreateRoomParams) (application.Room, error) {
			return application.Room{}, &application.ConflictError{Message: "Meeting room with name 'Room 1' already exists"}
		},
	}

	req := httptest.NewRequest(nethttp.MethodPost, "/meeting-rooms", strings.NewReader(createRoomBody))
	rec := httptest.NewRecorder()

	roomRouter(service).ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != "Meeting room with name 'Room 1' already exists" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRoomUpdateCapacityShrinkRejected(t *testing.T) {
	want := "Room could not be updated because booking with title 'All hands' has more participants (40) than new capacity (30)"
	service := &stubRoomService{
		update: func(context.Context, application.UpdateRoomParams) (application.Room, error) {
			return application.Room{}, &application.InvalidInputError{Message: want}
		},
	}

	req := httptest.NewRequest(nethttp.MethodPut, "/meeting-rooms/room-1", strings.NewReader(createRoomBody))
	rec := httptest.NewRecorder()

	roomRouter(service).ServeHTTP(rec, req)

	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeMessage(t, rec); msg != want {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestRoomGetListDelete(t *testing.T) {
	service := &stubRoomService{
		get: func(_ context.Context, _ application.Principal, roomID string) (application.Room, error) {
			if roomID != "room-1" {
				return application.Room{}, application.ErrNotFound
			}
			return sampleRoom(), nil
		},
		list: func(context.Context, application.Principal) ([]application.Room, error) {
			return []application.Room{sampleRoom()}, nil
		},
		del: func(context.Context, application.Principal, string) error {
			return nil
		},
	}
	router := roomRouter(service)

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/meeting-rooms/room-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != nethttp.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/meeting-rooms/other", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != nethttp.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("list", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodGet, "/meeting-rooms", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != nethttp.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var dtos []roomDTO
		if err := json.NewDecoder(rec.Body).Decode(&dtos); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if len(dtos) != 1 {
			t.Fatalf("expected 1 room, got %d", len(dtos))
		}
	})

	t.Run("delete", func(t *testing.T) {
		req := httptest.NewRequest(nethttp.MethodDelete, "/meeting-rooms/room-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != nethttp.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
