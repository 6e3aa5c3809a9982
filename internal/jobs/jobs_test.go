package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Pavanreddy56/BKI-company/internal/models"
	"github.com/Pavanreddy56/BKI-company/internal/store"
)

func TestSweepOverdueInvoices(t *testing.T) {
	st := store.NewMemoryStore()
	r := New(st, zap.NewNop())
	ctx := context.Background()

	past := time.Now().UTC().Add(-24 * time.Hour)
	inv := &models.Invoice{InvoiceNumber: "INV-LATE", Amount: 100, DueDate: &past}
	require.NoError(t, st.CreateInvoice(ctx, inv))

	r.sweepOverdueInvoices()

	got, err := st.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, "overdue", got.Status)
}

func TestSweepExpiredSessions(t *testing.T) {
	st := store.NewMemoryStore()
	r := New(st, zap.NewNop())
	ctx := context.Background()

	u := &models.User{Role: "client", PasswordHash: "x"}
	require.NoError(t, st.UpsertUser(ctx, u))
	stale := &models.Session{Token: "stale", UserID: u.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	require.NoError(t, st.CreateSession(ctx, stale))

	r.sweepExpiredSessions()

	_, err := st.GetSession(ctx, "stale")
	require.ErrorIs(t, err, store.ErrNotFound)
}
