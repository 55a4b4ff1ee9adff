package clients_test

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/AlekSi/pointer"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/infrastructure/clients"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordingWebhook struct {
	lock sync.Mutex

	status   int
	response string
	bodies   []map[string]any
	headers  []http.Header
}

func newRecordingWebhook(t *testing.T, status int, response string) (*recordingWebhook, *httptest.Server) {
	t.Helper()

	w := &recordingWebhook{status: status, response: response}
	srv := httptest.NewServer(http.HandlerFunc(w.handle))
	t.Cleanup(srv.Close)

	return w, srv
}

func (w *recordingWebhook) handle(rw http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	w.lock.Lock()
	w.bodies = append(w.bodies, body)
	w.headers = append(w.headers, r.Header.Clone())
	w.lock.Unlock()

	rw.WriteHeader(w.status)
	_, _ = rw.Write([]byte(w.response))
}

func (w *recordingWebhook) calls() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return len(w.bodies)
}

func testSubmission() registrations.Submission {
	return registrations.Submission{
		Name:       "Asha",
		Email:      "asha@example.com",
		Phone:      pointer.ToString("+919876543210"),
		EventID:    "evt_001",
		EventTitle: "Mindful Morning Coffee Chat",
		Timestamp:  "2026-03-14T09:30:00Z",
	}
}

func TestSheetsClient_Submit(t *testing.T) {
	primary, primarySrv := newRecordingWebhook(t, http.StatusOK, `{"ok":true}`)

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, "")

	ctx := log.ContextWithCorrelationID(context.Background(), "corr-1")
	require.NoError(t, c.Submit(ctx, testSubmission()))

	require.Equal(t, 1, primary.calls())
	body := primary.bodies[0]
	assert.Equal(t, "Asha", body["name"])
	assert.Equal(t, "evt_001", body["eventId"])
	assert.Equal(t, "+919876543210", body["phone"])
	assert.NotContains(t, body, "proofUrl")
	assert.Equal(t, "corr-1", primary.headers[0].Get("Correlation-ID"))
}

func TestSheetsClient_Submit_fallback(t *testing.T) {
	primary, primarySrv := newRecordingWebhook(t, http.StatusInternalServerError, "boom")
	fallback, fallbackSrv := newRecordingWebhook(t, http.StatusOK, "")

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, fallbackSrv.URL)

	require.NoError(t, c.Submit(context.Background(), testSubmission()))
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, fallback.calls())
}

func TestSheetsClient_Submit_upstreamError(t *testing.T) {
	_, primarySrv := newRecordingWebhook(t, http.StatusBadRequest, "sheet is locked")

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, "")

	err := c.Submit(context.Background(), testSubmission())

	var upstreamErr *clients.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
	assert.Equal(t, "sheet is locked", upstreamErr.MessageOr("Upstream failed"))
}

func TestSheetsClient_Submit_invalidSubmission(t *testing.T) {
	primary, primarySrv := newRecordingWebhook(t, http.StatusOK, "")

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, "")

	sub := testSubmission()
	sub.EventID = ""

	err := c.Submit(context.Background(), sub)
	require.ErrorIs(t, err, registrations.ErrMissingFields)
	assert.Equal(t, 0, primary.calls())
}

func TestSheetsClient_missingEnv(t *testing.T) {
	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), "", "")

	var missingErr *config.MissingEnvError
	require.ErrorAs(t, c.Submit(context.Background(), testSubmission()), &missingErr)
	assert.Equal(t, config.EnvSheetsWebhookURL, missingErr.Name)

	require.ErrorAs(t, c.Forward(context.Background(), testSubmission()), &missingErr)
}

func TestSheetsClient_Forward_doesNotUseFallback(t *testing.T) {
	_, primarySrv := newRecordingWebhook(t, http.StatusBadGateway, "")
	fallback, fallbackSrv := newRecordingWebhook(t, http.StatusOK, "")

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, fallbackSrv.URL)

	err := c.Forward(context.Background(), testSubmission())

	var upstreamErr *clients.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, "Upstream failed", upstreamErr.MessageOr("Upstream failed"))
	assert.Equal(t, 0, fallback.calls())
}

func TestSheetsClient_AppendContact(t *testing.T) {
	primary, primarySrv := newRecordingWebhook(t, http.StatusOK, "")

	c := clients.NewSheetsClient(clients.NewWebhookClient("sheets", time.Second), primarySrv.URL, "")

	err := c.AppendContact(context.Background(), registrations.ContactMessage{
		Kind:    registrations.ContactKind,
		Name:    "Ravi",
		Email:   "ravi@example.com",
		Message: "Do you host events in Kochi?",
	})
	require.NoError(t, err)

	require.Equal(t, 1, primary.calls())
	assert.Equal(t, "contact", primary.bodies[0]["kind"])
}

func testProof() proofs.Proof {
	return proofs.Proof{
		Filename:    "proof.png",
		ContentType: "image/png",
		DataBase64:  "iVBORw0KGgo=",
	}
}

func TestDriveClient_Upload(t *testing.T) {
	testCases := []struct {
		Name        string
		Status      int
		Response    string
		ExpectedURL string
		ExpectedErr error
	}{
		{
			Name:        "url returned",
			Status:      http.StatusOK,
			Response:    `{"ok":true,"url":"https://drive.example/f/1"}`,
			ExpectedURL: "https://drive.example/f/1",
		},
		{
			Name:        "url without ok flag",
			Status:      http.StatusOK,
			Response:    `{"url":"https://drive.example/f/2"}`,
			ExpectedURL: "https://drive.example/f/2",
		},
		{
			Name:        "missing url",
			Status:      http.StatusOK,
			Response:    `{"ok":true}`,
			ExpectedErr: clients.ErrBadUploadResponse,
		},
		{
			Name:        "not json",
			Status:      http.StatusOK,
			Response:    `saved`,
			ExpectedErr: clients.ErrBadUploadResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, srv := newRecordingWebhook(t, tc.Status, tc.Response)

			c := clients.NewDriveClient(clients.NewWebhookClient("drive", time.Second), srv.URL, "")

			url, err := c.Upload(context.Background(), testProof())
			if tc.ExpectedErr != nil {
				require.ErrorIs(t, err, tc.ExpectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedURL, url)
		})
	}
}

func TestDriveClient_Upload_okFalse(t *testing.T) {
	_, srv := newRecordingWebhook(t, http.StatusOK, `{"ok":false,"error":"quota exceeded"}`)

	c := clients.NewDriveClient(clients.NewWebhookClient("drive", time.Second), srv.URL, "")

	_, err := c.Upload(context.Background(), testProof())
	require.ErrorIs(t, err, clients.ErrBadUploadResponse)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestDriveClient_Upload_fallback(t *testing.T) {
	primary, primarySrv := newRecordingWebhook(t, http.StatusServiceUnavailable, "")
	fallback, fallbackSrv := newRecordingWebhook(t, http.StatusOK, `{"url":"https://backup.example/f/1"}`)

	c := clients.NewDriveClient(clients.NewWebhookClient("drive", time.Second), primarySrv.URL, fallbackSrv.URL)

	url, err := c.Upload(context.Background(), testProof())
	require.NoError(t, err)
	assert.Equal(t, "https://backup.example/f/1", url)
	assert.Equal(t, 1, primary.calls())
	assert.Equal(t, 1, fallback.calls())
	assert.Equal(t, "proof.png", fallback.bodies[0]["filename"])
	assert.Equal(t, "iVBORw0KGgo=", fallback.bodies[0]["dataBase64"])
}

func TestDriveClient_missingEnv(t *testing.T) {
	c := clients.NewDriveClient(clients.NewWebhookClient("drive", time.Second), "", "")

	_, err := c.Upload(context.Background(), testProof())

	var missingErr *config.MissingEnvError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, config.EnvDriveWebhookURL, missingErr.Name)
}

func TestWebhookClient_breakerOpensOnServerErrors(t *testing.T) {
	hook, srv := newRecordingWebhook(t, http.StatusInternalServerError, "down")

	c := clients.NewWebhookClient("sheets", time.Second)

	for i := 0; i < 5; i++ {
		_, err := c.PostJSON(context.Background(), "primary", srv.URL, []byte(`{}`))
		var upstreamErr *clients.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
	}

	_, err := c.PostJSON(context.Background(), "primary", srv.URL, []byte(`{}`))
	require.ErrorIs(t, err, clients.ErrWebhookUnavailable)

	var upstreamErr *clients.UpstreamError
	assert.False(t, errors.As(err, &upstreamErr), "open breaker should short-circuit")
	assert.Equal(t, 5, hook.calls())
}

func TestWebhookClient_clientErrorsDoNotOpenBreaker(t *testing.T) {
	hook, srv := newRecordingWebhook(t, http.StatusBadRequest, "bad row")

	c := clients.NewWebhookClient("sheets", time.Second)

	for i := 0; i < 8; i++ {
		_, err := c.PostJSON(context.Background(), "primary", srv.URL, []byte(`{}`))
		var upstreamErr *clients.UpstreamError
		require.ErrorAs(t, err, &upstreamErr)
	}

	assert.Equal(t, 8, hook.calls())
}
