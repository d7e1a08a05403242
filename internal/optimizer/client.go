package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/config"
	"github.com/ward-shift-dev/nurse-shift-manager/backend/internal/domain"
)

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{},
	}
}

// solveTimeout 求解时限加网络余量，时限可以带小数，换算时不能截断
func (c *Client) solveTimeout(limit float64) time.Duration {
	return time.Duration(limit*float64(time.Second)) + time.Duration(c.cfg.Optimizer.TimeoutMargin)*time.Second
}

// GenerateSchedule 调用优化服务生成排班
// 整个调用受求解时限加网络余量的超时约束，超时不视为成功
func (c *Client) GenerateSchedule(ctx context.Context, request *Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.solveTimeout(request.SolverTimeLimit))
	defer cancel()

	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Optimizer.BaseURL+"/generate-schedule", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrOptimizerTimeout
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrOptimizerFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 上游的错误信息原样转告调用方
		var upstream struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil || upstream.Error == "" {
			return nil, fmt.Errorf("%w，状态码 %d", domain.ErrOptimizerFailed, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrOptimizerFailed, upstream.Error)
	}

	result := &Response{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOptimizerFailed, err)
	}

	return result, nil
}
