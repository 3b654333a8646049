package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering what the bot needs:
// sending text and documents, webhook registration, and long polling.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Bot API client for the given bot token.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 65 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// SendMessage delivers a plain text message to a chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	data := url.Values{}
	data.Set("chat_id", strconv.FormatInt(chatID, 10))
	data.Set("text", text)
	return c.postForm("sendMessage", data, nil)
}

// SendHTML delivers an HTML-formatted message, used for <pre> tables.
func (c *Client) SendHTML(chatID int64, html string) error {
	data := url.Values{}
	data.Set("chat_id", strconv.FormatInt(chatID, 10))
	data.Set("text", html)
	data.Set("parse_mode", "HTML")
	return c.postForm("sendMessage", data, nil)
}

// SendDocument uploads a file to a chat as a document attachment.
func (c *Client) SendDocument(chatID int64, filename string, content []byte, caption string) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	if caption != "" {
		if err := writer.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.method("sendDocument"), writer.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, nil)
}

// SetWebhook registers the externally reachable callback URL with the Bot
// API.
func (c *Client) SetWebhook(webhookURL string) error {
	data := url.Values{}
	data.Set("url", webhookURL)
	return c.postForm("setWebhook", data, nil)
}

// DeleteWebhook removes any registered webhook so long polling can take
// over.
func (c *Client) DeleteWebhook() error {
	return c.postForm("deleteWebhook", url.Values{}, nil)
}

// GetUpdates long-polls for updates after the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	data := url.Values{}
	data.Set("offset", strconv.FormatInt(offset, 10))
	data.Set("timeout", strconv.Itoa(int(timeout.Seconds())))
	data.Set("allowed_updates", `["message"]`)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.method("getUpdates"),
		strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var updates []Update
	if err := decodeResponse(resp, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) postForm(apiMethod string, data url.Values, out any) error {
	resp, err := c.httpClient.Post(c.method(apiMethod), "application/x-www-form-urlencoded",
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func (c *Client) method(apiMethod string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, apiMethod)
}

func decodeResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	if !api.OK {
		return fmt.Errorf("telegram API error: %s", api.Description)
	}
	if out != nil {
		return json.Unmarshal(api.Result, out)
	}
	return nil
}
