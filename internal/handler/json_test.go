package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestDomainErrorResponse(t *testing.T) {
	h := &Handler{}

	t.Run("配额错误带上当前用量", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		h.domainErrorResponse(w, r, &domain.QuotaError{Scope: "本年度硬性请求", Current: 5, Limit: 5})

		resp := decodeResponse(t, w)
		require.Equal(t, http.StatusOK, w.Code)
		require.False(t, resp.Success)
		require.Contains(t, resp.Message, "5/5")
	})

	t.Run("包装过的配额错误同样能识别", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		err := fmt.Errorf("创建护士失败: %w", &domain.QuotaError{Scope: "内科管理员", Current: 2, Limit: 2})
		h.domainErrorResponse(w, r, err)

		resp := decodeResponse(t, w)
		require.False(t, resp.Success)
		require.Contains(t, resp.Message, "2/2")
	})

	t.Run("条件写入落空映射为已处理", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		h.domainErrorResponse(w, r, domain.ErrRequestAlreadyHandled)

		resp := decodeResponse(t, w)
		require.Equal(t, http.StatusOK, w.Code)
		require.False(t, resp.Success)
		require.Equal(t, domain.ErrRequestAlreadyHandled.Error(), resp.Message)
	})

	t.Run("人数不足原样返回", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		err := fmt.Errorf("%w，共有 3 名护士，单个班次最多需要 4 人", domain.ErrInsufficientStaff)
		h.domainErrorResponse(w, r, err)

		resp := decodeResponse(t, w)
		require.False(t, resp.Success)
		require.Contains(t, resp.Message, "3 名护士")
	})

	t.Run("未知错误按内部错误处理", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		h.domainErrorResponse(w, r, errors.New("connection reset"))

		resp := decodeResponse(t, w)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.False(t, resp.Success)
		require.Equal(t, "服务器内部错误", resp.Message)
	})
}
