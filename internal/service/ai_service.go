package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/model"
)

type AIService struct {
	mu     sync.RWMutex
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// UpdateConfig 配置热更新回调
func (s *AIService) UpdateConfig(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
	if cfg.TimeoutSeconds > 0 {
		s.client = &http.Client{Timeout: cfg.TimeoutSeconds}
	}
}

func (s *AIService) snapshot() (config.AIConfig, *http.Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.client
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateQuizRequest 题目生成接口的请求体
type GenerateQuizRequest struct {
	Topics        []string         `json:"topics"`
	Difficulty    model.Difficulty `json:"difficulty"`
	QuestionCount int              `json:"questionCount"`
	CourseContext string           `json:"courseContext"`
}

type GenerateQuizResponse struct {
	Success   bool             `json:"success"`
	Questions []model.Question `json:"questions"`
	Error     string           `json:"error,omitempty"`
}

// GenerateQuestions 非 2xx、success=false 或无法解析时返回错误，由调用方决定降级
func (s *AIService) GenerateQuestions(ctx context.Context, req GenerateQuizRequest) ([]model.Question, error) {
	cfg, client := s.snapshot()
	if cfg.QuizURL == "" {
		return nil, fmt.Errorf("quiz generation url not configured")
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.QuizURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("quiz API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result GenerateQuizResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode quiz response: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("quiz API reported failure: %s", result.Error)
	}
	return result.Questions, nil
}

func (s *AIService) buildMessages(prompt, background string, history []AIChatMessage) []AIChatMessage {
	systemContent := "You are a patient study assistant. Answer the student's doubt clearly and concisely."
	if background != "" {
		systemContent = fmt.Sprintf("You are a study assistant. Use the following course context when answering:\n\n%s", background)
	}

	messages := make([]AIChatMessage, 0, len(history)+2)
	messages = append(messages, AIChatMessage{Role: "system", Content: systemContent})
	for _, h := range history {
		if h.Role != "user" && h.Role != "assistant" {
			continue
		}
		messages = append(messages, h)
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: prompt})
	return messages
}

func (s *AIService) newChatRequest(ctx context.Context, cfg config.AIConfig, body ChatCompletionRequest) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	return req, nil
}

func (s *AIService) Chat(ctx context.Context, prompt, background string, history []AIChatMessage) (string, error) {
	cfg, client := s.snapshot()
	req, err := s.newChatRequest(ctx, cfg, ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: s.buildMessages(prompt, background, history),
	})
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

func (s *AIService) ChatStream(ctx context.Context, prompt, background string, history []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	cfg, client := s.snapshot()
	req, err := s.newChatRequest(ctx, cfg, ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: s.buildMessages(prompt, background, history),
		Stream:   true,
	})
	if err != nil {
		close(out)
		errChan <- err
		close(errChan)
		return out, errChan
	}

	go func() {
		defer close(out)
		defer close(errChan)

		resp, err := client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, truncate(string(body), 200))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				return
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				return
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				if content := streamResp.Choices[0].Delta.Content; content != "" {
					select {
					case out <- content:
					case <-ctx.Done():
						errChan <- ctx.Err()
						return
					}
				}
			}
		}
	}()

	return out, errChan
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
