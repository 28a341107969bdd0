package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amgohq/amgo/internal/api/response"
	"github.com/amgohq/amgo/internal/notify"
)

// NotificationBus is the read/dismiss side of the notification bus.
type NotificationBus interface {
	Recent() []notify.Notification
	Dismiss(id string)
}

// NewListNotificationsHandler returns an http.HandlerFunc for GET /api/v1/notifications.
func NewListNotificationsHandler(bus NotificationBus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, bus.Recent())
	}
}

// NewDismissNotificationHandler returns an http.HandlerFunc for
// DELETE /api/v1/notifications/{notificationID}. Dismissing an unknown or
// already-expired notification is a no-op.
func NewDismissNotificationHandler(bus NotificationBus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "notificationID")
		bus.Dismiss(id)
		response.JSON(w, map[string]any{
			"id":        id,
			"dismissed": true,
		})
	}
}
