package optimizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func newTestClient(baseURL string, timeoutMargin int) *Client {
	cfg := &config.Config{}
	cfg.Optimizer.BaseURL = baseURL
	cfg.Optimizer.TimeoutMargin = timeoutMargin
	return NewClient(cfg)
}

func TestSolveTimeout(t *testing.T) {
	client := newTestClient("http://localhost:5000", 30)

	require.Equal(t, 90*time.Second, client.solveTimeout(60))
	// 求解时限的小数部分不能被截断
	require.Equal(t, 120*time.Second+500*time.Millisecond, client.solveTimeout(90.5))
}

func TestGenerateSchedule(t *testing.T) {
	t.Run("成功时解析排班结果", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/generate-schedule", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var request Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			require.Equal(t, "2025-06-01", request.Schedule.StartDate)

			json.NewEncoder(w).Encode(Response{
				StartDate:          "2025-06-01",
				EndDate:            "2025-06-30",
				SolverStatus:       "OPTIMAL",
				NextCarryOverFlags: map[int64]bool{7: true},
			})
		}))
		defer server.Close()

		client := newTestClient(server.URL, 30)
		resp, err := client.GenerateSchedule(context.Background(), &Request{
			Schedule:        Window{StartDate: "2025-06-01", EndDate: "2025-06-30"},
			SolverTimeLimit: 5,
		})
		require.NoError(t, err)
		require.Equal(t, "OPTIMAL", resp.SolverStatus)
		require.Equal(t, map[int64]bool{7: true}, resp.NextCarryOverFlags)
	})

	t.Run("上游错误信息原样转告", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "infeasible model"})
		}))
		defer server.Close()

		client := newTestClient(server.URL, 30)
		_, err := client.GenerateSchedule(context.Background(), &Request{SolverTimeLimit: 5})
		require.ErrorIs(t, err, domain.ErrOptimizerFailed)
		require.Contains(t, err.Error(), "infeasible model")
	})

	t.Run("上游没有错误信息时带上状态码", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := newTestClient(server.URL, 30)
		_, err := client.GenerateSchedule(context.Background(), &Request{SolverTimeLimit: 5})
		require.ErrorIs(t, err, domain.ErrOptimizerFailed)
		require.Contains(t, err.Error(), "500")
	})

	t.Run("超过求解时限加余量后报超时", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		// 时限接近零，余量为零，必然超时
		client := newTestClient(server.URL, 0)
		_, err := client.GenerateSchedule(context.Background(), &Request{SolverTimeLimit: 0.01})
		require.ErrorIs(t, err, domain.ErrOptimizerTimeout)
	})
}
