package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Sender é o contrato de envio de mensagem externa. Implementado pelo
// Client real e por fakes nos testes.
type Sender interface {
	SendText(ctx context.Context, to string, message string) error
}

// Client fala com a WhatsApp Cloud API. Sem token ou phone number ID ele
// opera em modo mock: loga a mensagem e retorna sucesso, para nunca travar
// o fluxo de agendamento em ambiente de dev.
type Client struct {
	token         string
	phoneNumberID string
	baseURL       string
	httpClient    *http.Client
	logger        zerolog.Logger
}

func New(token, phoneNumberID string, logger zerolog.Logger) *Client {
	return &Client{
		token:         token,
		phoneNumberID: phoneNumberID,
		baseURL:       defaultBaseURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
	}
}

func (c *Client) configured() bool {
	return c.token != "" && c.phoneNumberID != ""
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

func (c *Client) SendText(ctx context.Context, to string, message string) error {
	if !c.configured() {
		c.logger.Warn().
			Str("to", to).
			Str("message", message).
			Msg("whatsapp credentials missing, mock send")
		return nil
	}

	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               OnlyDigits(to),
		Type:             "text",
	}
	payload.Text.PreviewURL = false
	payload.Text.Body = message

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

// OnlyDigits normaliza o telefone para o formato aceito pela Cloud API.
func OnlyDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
