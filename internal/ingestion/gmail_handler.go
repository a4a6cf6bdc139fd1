package ingestion

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailConfig locates the OAuth files used by GmailHandler
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
}

// GmailHandler fetches résumé attachments from a Gmail inbox
type GmailHandler struct {
	service *gmail.Service
	logger  *zap.Logger
}

// NewGmailHandler creates a Gmail handler. When no cached token exists the
// user is asked to authorize through prompt/answer.
func NewGmailHandler(ctx context.Context, cfg GmailConfig, prompt io.Writer, answer io.Reader, logger *zap.Logger) (*GmailHandler, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client, err := getClient(ctx, config, cfg.TokenFile, prompt, answer)
	if err != nil {
		return nil, err
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail client: %w", err)
	}

	return &GmailHandler{
		service: srv,
		logger:  logger,
	}, nil
}

// getClient retrieves a token, saves it, then returns the generated client
func getClient(ctx context.Context, config *oauth2.Config, tokFile string, prompt io.Writer, answer io.Reader) (*http.Client, error) {
	tok, err := tokenFromFile(tokFile)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, config, prompt, answer)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokFile, tok); err != nil {
			return nil, err
		}
	}
	return config.Client(ctx, tok), nil
}

// getTokenFromWeb requests a token from the web
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, prompt io.Writer, answer io.Reader) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(prompt, "Go to the following link in your browser then type the authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Fscan(answer, &authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

// tokenFromFile retrieves a token from a local file
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// saveToken saves a token to a file path
func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	return nil
}

// FetchAttachments returns the supported résumé attachments of every
// message whose subject matches
func (gh *GmailHandler) FetchAttachments(ctx context.Context, subject string) ([]Document, error) {
	user := "me"
	query := fmt.Sprintf("subject:%q has:attachment", subject)

	r, err := gh.service.Users.Messages.List(user).Q(query).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve messages: %w", err)
	}

	if len(r.Messages) == 0 {
		return nil, fmt.Errorf("no messages found with subject: %s", subject)
	}

	var documents []Document
	for _, msg := range r.Messages {
		message, err := gh.service.Users.Messages.Get(user, msg.Id).Context(ctx).Do()
		if err != nil {
			gh.logger.Warn("unable to retrieve message", zap.String("message_id", msg.Id), zap.Error(err))
			continue
		}

		senderName := extractSenderName(message)

		for _, part := range attachmentParts(message.Payload) {
			ext := strings.ToLower(filepath.Ext(part.Filename))
			if !IsSupported(ext) {
				continue
			}

			attachment, err := gh.service.Users.Messages.Attachments.Get(user, msg.Id, part.Body.AttachmentId).Context(ctx).Do()
			if err != nil {
				gh.logger.Warn("unable to retrieve attachment", zap.String("file", part.Filename), zap.Error(err))
				continue
			}

			data, err := base64.URLEncoding.DecodeString(attachment.Data)
			if err != nil {
				gh.logger.Warn("unable to decode attachment", zap.String("file", part.Filename), zap.Error(err))
				continue
			}

			documents = append(documents, Document{
				Name:    fmt.Sprintf("%s_%s", senderName, part.Filename),
				Ext:     ext,
				Content: data,
			})
			gh.logger.Info("downloaded attachment", zap.String("sender", senderName), zap.String("file", part.Filename))
		}
	}

	return documents, nil
}

// attachmentParts walks nested multipart payloads
func attachmentParts(part *gmail.MessagePart) []*gmail.MessagePart {
	if part == nil {
		return nil
	}
	var parts []*gmail.MessagePart
	if part.Filename != "" && part.Body != nil && part.Body.AttachmentId != "" {
		parts = append(parts, part)
	}
	for _, child := range part.Parts {
		parts = append(parts, attachmentParts(child)...)
	}
	return parts
}

// extractSenderName extracts the sender's name from email headers
func extractSenderName(message *gmail.Message) string {
	if message.Payload == nil {
		return "Unknown"
	}
	for _, header := range message.Payload.Headers {
		if header.Name == "From" {
			// "Name <email@example.com>"
			from := header.Value
			if idx := strings.Index(from, "<"); idx > 0 {
				name := strings.TrimSpace(from[:idx])
				name = strings.Trim(name, `"`)
				return strings.ReplaceAll(name, " ", "")
			}
			if idx := strings.Index(from, "@"); idx > 0 {
				return from[:idx]
			}
			return "Unknown"
		}
	}
	return "Unknown"
}
