package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchsync/pitchsync/internal/usecase"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected api version: %q", envelope.APIVersion)
	}
	if envelope.Error != nil {
		t.Fatalf("success envelope carries error: %+v", envelope.Error)
	}
}

func TestMapErrorStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{fmt.Errorf("%w: seasons", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		{usecase.ErrNotFound, http.StatusNotFound, "notFound"},
		{fmt.Errorf("%w: Arsenal", usecase.ErrTeamNotFound), http.StatusNotFound, "notFound"},
		{fmt.Errorf("%w: all sources", usecase.ErrSourceUnavailable), http.StatusServiceUnavailable, "dependencyUnavailable"},
		{fmt.Errorf("%w: commit", usecase.ErrStoreUnavailable), http.StatusServiceUnavailable, "dependencyUnavailable"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internalError"},
	}

	for _, tc := range cases {
		mapped := mapError(tc.err)
		if mapped.HTTPStatus != tc.wantStatus || mapped.Reason != tc.wantReason {
			t.Fatalf("mapError(%v) = %d %q, want %d %q",
				tc.err, mapped.HTTPStatus, mapped.Reason, tc.wantStatus, tc.wantReason)
		}
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: limit must be between 1 and 1000", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var envelope googleResponseEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error == nil || envelope.Error.Code != http.StatusBadRequest {
		t.Fatalf("unexpected error body: %+v", envelope.Error)
	}
	if envelope.Error.Status != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected error status: %q", envelope.Error.Status)
	}
	if len(envelope.Error.Errors) != 1 || envelope.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("unexpected error items: %+v", envelope.Error.Errors)
	}
}
