package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neighnet/internal/admission"
	"neighnet/internal/visitor"
	id "neighnet/pkg/domain"
	dErrors "neighnet/pkg/domain-errors"
)

type expoCapture struct {
	mu      sync.Mutex
	batches [][]Message
}

func (c *expoCapture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var batch []Message
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		c.mu.Lock()
		c.batches = append(c.batches, batch)
		c.mu.Unlock()
		w.Write([]byte(`{"data":[]}`))
	}
}

func (c *expoCapture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func TestNotifyScan_DeliversToOwnerTokens(t *testing.T) {
	capture := &expoCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	visitors := visitor.NewService(visitor.NewMemoryStore())
	resident := id.NewUserID()
	v, err := visitors.Create(context.Background(), resident, visitor.CreateInput{
		Name:             "Ana Torres",
		IDDocumentNumber: "0801-1990-12345",
	})
	require.NoError(t, err)

	tokens := NewMemoryTokenStore()
	svc := NewService(visitors, tokens, NewExpoClient(server.URL), nil)
	require.NoError(t, svc.RegisterToken(context.Background(), resident, "ExponentPushToken[abc]"))
	require.NoError(t, svc.RegisterToken(context.Background(), resident, "ExponentPushToken[def]"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx) }()

	svc.NotifyScan(context.Background(), &admission.VisitRecord{
		ID:        id.NewVisitID(),
		VisitorID: v.ID,
		Kind:      admission.KindEntry,
	})

	require.Eventually(t, func() bool { return capture.count() == 1 }, time.Second, 10*time.Millisecond)

	capture.mu.Lock()
	batch := capture.batches[0]
	capture.mu.Unlock()
	require.Len(t, batch, 2)
	assert.Equal(t, "Visitante ingresó", batch[0].Title)
	assert.Equal(t, "Ana Torres", batch[0].Body)
	assert.Equal(t, "Entry", batch[0].Data["kind"])
}

func TestNotifyScan_NoTokensNoCall(t *testing.T) {
	capture := &expoCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	visitors := visitor.NewService(visitor.NewMemoryStore())
	resident := id.NewUserID()
	v, err := visitors.Create(context.Background(), resident, visitor.CreateInput{
		Name:             "Ana Torres",
		IDDocumentNumber: "0801-1990-12345",
	})
	require.NoError(t, err)

	svc := NewService(visitors, NewMemoryTokenStore(), NewExpoClient(server.URL), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Run(ctx) }()

	svc.NotifyScan(context.Background(), &admission.VisitRecord{
		ID:        id.NewVisitID(),
		VisitorID: v.ID,
		Kind:      admission.KindExit,
	})

	// Give the worker a moment; nothing should reach the push endpoint.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, capture.count())
}

func TestRegisterToken_Validation(t *testing.T) {
	svc := NewService(nil, NewMemoryTokenStore(), NewExpoClient(""), nil)

	err := svc.RegisterToken(context.Background(), id.NewUserID(), "   ")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
