package ladderidentity

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ladderdomain "github.com/Black-And-White-Club/padel-ladder/app/modules/ladder/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	p := NewProvider(testSecret)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	actor := ladderdomain.Actor{PlayerID: uuid.New()}
	valid, err := p.GenerateToken(actor, time.Hour)
	require.NoError(t, err)
	expired, err := p.GenerateToken(actor, -time.Minute)
	require.NoError(t, err)

	var seen ladderdomain.Actor
	h := Authenticate(p, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := ActorFrom(r.Context())
		require.True(t, ok)
		seen = got
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{name: "valid", header: "Bearer " + valid, status: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer " + valid, status: http.StatusNoContent},
		{name: "missing", header: "", status: http.StatusUnauthorized, code: "missing_token"},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized, code: "missing_token"},
		{name: "expired", header: "Bearer " + expired, status: http.StatusUnauthorized, code: "expired_token"},
		{name: "garbage", header: "Bearer abc.def.ghi", status: http.StatusUnauthorized, code: "invalid_token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ladderdomain.Actor{}
			req := httptest.NewRequest(http.MethodGet, "/v1/rounds", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code == "" {
				assert.Equal(t, actor, seen)
				return
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
		})
	}
}
