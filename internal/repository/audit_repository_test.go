package repository

import (
	"testing"
	"time"

	"github.com/otcheredev/lims-admin-console/internal/crud"
	"github.com/stretchr/testify/assert"
)

func TestFromEvent(t *testing.T) {
	actor := crud.Actor{SessionID: "s-1", TenantID: "2", UserID: "14", Email: "admin@lims.com"}

	t.Run("success", func(t *testing.T) {
		entry := FromEvent(crud.Event{
			Screen:    "contracts",
			Operation: "renew",
			EntityID:  "4",
			Success:   true,
			Message:   "",
			Actor:     actor,
			Duration:  1500 * time.Millisecond,
		})

		assert.Equal(t, "s-1", entry.SessionID)
		assert.Equal(t, "2", entry.TenantID)
		assert.Equal(t, "14", entry.UserID)
		assert.Equal(t, "admin@lims.com", entry.UserEmail)
		assert.Equal(t, "contracts", entry.Screen)
		assert.Equal(t, "renew", entry.Action)
		assert.Equal(t, "4", entry.EntityID)
		assert.Equal(t, "success", entry.Status)
		assert.Empty(t, entry.ErrorMessage)
		assert.Equal(t, int64(1500), entry.Duration)
	})

	t.Run("failure keeps the displayed message", func(t *testing.T) {
		entry := FromEvent(crud.Event{
			Screen:    "patients",
			Operation: "create",
			Success:   false,
			Message:   "Email already exists",
			Actor:     actor,
		})

		assert.Equal(t, "failure", entry.Status)
		assert.Equal(t, "Email already exists", entry.ErrorMessage)
	})
}
