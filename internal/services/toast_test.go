package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"alfredoptarigan/hr-dashboard/internal/models"
)

func TestToastService_DrainIsFIFOAndOneShot(t *testing.T) {
	toasts := NewToastService()
	id := uuid.New()

	toasts.Push(id, models.Toast{Title: "first"})
	toasts.Push(id, models.Toast{Title: "second", Variant: models.ToastDestructive})

	got := toasts.Drain(id)
	assert.Equal(t, []models.Toast{
		{Title: "first", Variant: models.ToastDefault},
		{Title: "second", Variant: models.ToastDestructive},
	}, got)

	assert.Empty(t, toasts.Drain(id))
}

func TestToastService_IsolatedPerSession(t *testing.T) {
	toasts := NewToastService()
	a, b := uuid.New(), uuid.New()

	toasts.Push(a, models.Toast{Title: "for a"})

	assert.Empty(t, toasts.Drain(b))
	assert.Len(t, toasts.Drain(a), 1)
}

func TestToastService_BoundedQueue(t *testing.T) {
	toasts := NewToastService()
	id := uuid.New()

	for i := 0; i < maxToastsPerSession+5; i++ {
		toasts.Push(id, models.Toast{Title: fmt.Sprintf("t%d", i)})
	}

	got := toasts.Drain(id)
	assert.Len(t, got, maxToastsPerSession)
	assert.Equal(t, "t5", got[0].Title)
}

func TestToastService_Clear(t *testing.T) {
	toasts := NewToastService()
	id := uuid.New()

	toasts.Push(id, models.Toast{Title: "gone"})
	toasts.Clear(id)

	assert.Empty(t, toasts.Drain(id))
}
