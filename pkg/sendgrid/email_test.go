package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aaravmahajanofficial/bookstore-platform/internal/config"
	"github.com/aaravmahajanofficial/bookstore-platform/internal/models"
	sendgrid_client "github.com/aaravmahajanofficial/bookstore-platform/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiKey = "SG.test-api-key"

func testConfig() config.SendGrid {
	return config.SendGrid{
		APIKey:                apiKey,
		FromEmail:             "from@example.com",
		FromName:              "Test Sender",
		CheckoutTemplate:      "d-checkout",
		PasswordResetTemplate: "d-reset",
	}
}

func TestNewEmailService(t *testing.T) {
	service := sendgrid_client.NewEmailService(testConfig())

	assert.NotNil(t, service)
	assert.NotNil(t, service.GetSendGridClient())
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To                  []map[string]string `json:"to"`
		Subject             string              `json:"subject"`
		DynamicTemplateData map[string]any      `json:"dynamic_template_data"`
	} `json:"personalizations"`
	From       map[string]string `json:"from"`
	TemplateID string            `json:"template_id"`
}

func TestEmailService_Send(t *testing.T) {
	ctx := t.Context()

	var lastRequestPayload sendgridV3Payload

	var handlerFunc http.HandlerFunc

	startMockServer := func() *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, "Failed to read request body", http.StatusInternalServerError)

				return
			}

			defer r.Body.Close()

			if err := json.Unmarshal(bodyBytes, &lastRequestPayload); err != nil {
				http.Error(w, "Failed to unmarshal request body", http.StatusBadRequest)

				return
			}

			handlerFunc(w, r)
		}))
	}

	tests := []struct {
		name          string
		msg           *models.EmailMessage
		handler       http.HandlerFunc
		expectedError string
		checkPayload  func(t *testing.T, payload sendgridV3Payload)
	}{
		{
			name: "Success - Checkout Template",
			msg: &models.EmailMessage{
				To:       "reader@example.com",
				Subject:  "Your order",
				Template: models.TemplateCheckout,
				Context:  map[string]any{"tracking_code": "abc-123"},
			},
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				assert.Equal(t, "d-checkout", p.TemplateID)
				assert.Equal(t, "from@example.com", p.From["email"])
				assert.Equal(t, "Test Sender", p.From["name"])

				require.Len(t, p.Personalizations, 1)
				pers := p.Personalizations[0]
				require.Len(t, pers.To, 1)
				assert.Equal(t, "reader@example.com", pers.To[0]["email"])
				assert.Equal(t, "Your order", pers.Subject)
				assert.Equal(t, "abc-123", pers.DynamicTemplateData["tracking_code"])
				assert.Equal(t, "Your order", pers.DynamicTemplateData["subject"])
			},
		},
		{
			name: "Success - Sender Override",
			msg: &models.EmailMessage{
				From:     "support@example.com",
				To:       "reader@example.com",
				Subject:  "Reset",
				Template: models.TemplatePasswordReset,
			},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusAccepted)
			},
			checkPayload: func(t *testing.T, p sendgridV3Payload) {
				assert.Equal(t, "d-reset", p.TemplateID)
				assert.Equal(t, "support@example.com", p.From["email"])
			},
		},
		{
			name: "Failure - SendGrid API Error (4xx)",
			msg: &models.EmailMessage{
				To:       "bad@example.com",
				Subject:  "Reset",
				Template: models.TemplatePasswordReset,
			},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid email"}]}`))
			},
			expectedError: "failed to send email, status code: 400",
		},
		{
			name: "Failure - SendGrid API Error (5xx)",
			msg: &models.EmailMessage{
				To:       "reader@example.com",
				Subject:  "Your order",
				Template: models.TemplateCheckout,
			},
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectedError: "failed to send email, status code: 500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lastRequestPayload = sendgridV3Payload{}
			handlerFunc = tc.handler

			mockServer := startMockServer()
			defer mockServer.Close()

			service := sendgrid_client.NewEmailService(testConfig())
			service.GetSendGridClient().Request.BaseURL = mockServer.URL

			err := service.Send(ctx, tc.msg)

			if tc.expectedError == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
			}

			if tc.checkPayload != nil {
				tc.checkPayload(t, lastRequestPayload)
			}
		})
	}

	t.Run("Failure - Unknown Template", func(t *testing.T) {
		service := sendgrid_client.NewEmailService(testConfig())

		err := service.Send(ctx, &models.EmailMessage{To: "reader@example.com", Subject: "x", Template: "welcome"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), `no sendgrid template configured for "welcome"`)
	})

	t.Run("Failure - Network Error", func(t *testing.T) {
		mockServer := startMockServer()

		service := sendgrid_client.NewEmailService(testConfig())
		service.GetSendGridClient().Request.BaseURL = mockServer.URL
		mockServer.Close()

		err := service.Send(ctx, &models.EmailMessage{To: "reader@example.com", Subject: "x", Template: models.TemplateCheckout})

		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "connection refused") || strings.Contains(err.Error(), "dial tcp"))
	})
}
