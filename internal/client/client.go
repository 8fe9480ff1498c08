package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"kradesk/internal/model"
)

// ErrNoToken 缺少鉴权令牌，任何请求发出之前即短路
var ErrNoToken = errors.New("authentication token not found")

// Client KRA 后端 HTTP 客户端。每个请求都携带 Bearer 令牌。
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New 创建后端客户端
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

// do 执行请求并读取响应体。非 2xx 时尝试取出 JSON 错误消息。
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return nil, errors.New(payload.Error)
		}
		return nil, fmt.Errorf("server error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return body, nil
}

// ListKRAs 拉取现有 KRA 快照
func (c *Client) ListKRAs(ctx context.Context) ([]model.KRA, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/kras", nil)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeKRAList(body)
}

// multipartUpload 组装导入请求体：file 字段 + 可选 decisions 字段
func multipartUpload(filename string, file []byte, decisions map[string]string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file); err != nil {
		return nil, "", err
	}

	if decisions != nil {
		encoded, err := json.Marshal(decisions)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField("decisions", string(encoded)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// Analyze 干跑校验：上传文件但不落库
func (c *Client) Analyze(ctx context.Context, filename string, file []byte) (*model.AnalyzeResult, error) {
	buf, contentType, err := multipartUpload(filename, file, nil)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/kras/import?analyze=true", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result model.AnalyzeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("server returned invalid response: %w", err)
	}
	return &result, nil
}

// Commit 提交原始文件和决策表，一次批量写入
func (c *Client) Commit(ctx context.Context, filename string, file []byte, decisions map[string]string) (*model.ImportResult, error) {
	if decisions == nil {
		decisions = map[string]string{}
	}
	buf, contentType, err := multipartUpload(filename, file, decisions)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/kras/import", buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result model.ImportResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("server returned invalid response: %w", err)
	}
	return &result, nil
}
