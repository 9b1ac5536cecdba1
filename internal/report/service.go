package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
)

const (
	FileName    = "diagnosis_and_treatment_plan.pdf"
	ContentType = "application/pdf"
)

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

// Document is an exported report ready for download.
type Document struct {
	FileName    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// DataURI embeds the document inline so the client can offer it for download
// without a second request.
func (d Document) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", d.ContentType, base64.StdEncoding.EncodeToString(d.Data))
}

type Service struct {
	renderer     *Renderer
	tgClient     TelegramClient
	doctorChatID int64
}

// NewService builds the export service. tg may be nil, in which case reports
// are never forwarded.
func NewService(renderer *Renderer, tg TelegramClient, doctorChatID int64) *Service {
	return &Service{
		renderer:     renderer,
		tgClient:     tg,
		doctorChatID: doctorChatID,
	}
}

// Export renders report text into a PDF document.
func (s *Service) Export(text string) (Document, error) {
	data, err := s.renderer.Render(Parse(text))
	if err != nil {
		return Document{}, fmt.Errorf("render report: %w", err)
	}
	return Document{FileName: FileName, ContentType: ContentType, Data: data}, nil
}

// SendDoctorReport forwards an exported document to the configured chat.
// It is a no-op when delivery is not configured.
func (s *Service) SendDoctorReport(ctx context.Context, consultationID string, doc Document) error {
	if s.tgClient == nil || s.doctorChatID == 0 {
		return nil
	}
	fileName := fmt.Sprintf("report_%s.pdf", consultationID)
	log.Printf("Sending report %s to Telegram chat %d", consultationID, s.doctorChatID)
	if err := s.tgClient.SendDocument(ctx, s.doctorChatID, doc.Data, fileName); err != nil {
		return fmt.Errorf("send report document: %w", err)
	}
	caption := fmt.Sprintf("New consultation report %s. %s", consultationID, Title)
	if err := s.tgClient.SendMessage(ctx, s.doctorChatID, caption); err != nil {
		return fmt.Errorf("send report caption: %w", err)
	}
	return nil
}
