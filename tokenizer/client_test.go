package tokenizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"

	appConfig "github.com/Xushengqwer/content_service/config"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("初始化测试 logger 失败: %v", err)
	}
	return logger
}

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	return NewHTTPClient(&appConfig.TokenizerConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 2,
		MaxTokens:      3,
	}, newTestLogger(t))
}

func TestExtractTopicTokens_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extract" {
			t.Errorf("请求路径错误: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tokens": [" Go ", "go", "архитектура", "база", "данные"]}`))
	}))
	defer srv.Close()

	got := newTestClient(t, srv.URL).ExtractTopicTokens(context.Background(), "статья про Go и архитектуру")

	// 去重、小写、去空白，并截断到 maxTokens=3
	want := []string{"go", "архитектура", "база"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTopicTokens() = %v, want %v", got, want)
	}
}

func TestExtractTopicTokens_EmptyText(t *testing.T) {
	got := newTestClient(t, "http://127.0.0.1:0").ExtractTopicTokens(context.Background(), "   ")
	if len(got) != 0 {
		t.Errorf("空文本应返回空列表, got %v", got)
	}
}

func TestExtractTopicTokens_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	got := newTestClient(t, srv.URL).ExtractTopicTokens(context.Background(), "какой-то текст")
	if len(got) != 0 {
		t.Errorf("服务端错误时应按零标签处理, got %v", got)
	}
}

func TestExtractTopicTokens_Unreachable(t *testing.T) {
	got := newTestClient(t, "http://127.0.0.1:1").ExtractTopicTokens(context.Background(), "текст")
	if len(got) != 0 {
		t.Errorf("服务不可达时应按零标签处理, got %v", got)
	}
}
