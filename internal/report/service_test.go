package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func fontAvailable() bool {
	for _, p := range DefaultFontPaths {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}
	return false
}

func TestExport_RendersPDF(t *testing.T) {
	if !fontAvailable() {
		t.Skip("DejaVuSans not installed")
	}
	svc := NewService(NewRenderer(), nil, 0)
	doc, err := svc.Export(Compose(Sections{Diagnosis: "# Flu\n*rest*\ntext", Treatment: "Fluids"}))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !bytes.HasPrefix(doc.Data, []byte("%PDF")) {
		t.Fatalf("not a PDF: %q", doc.Data[:8])
	}
	if !strings.HasPrefix(doc.DataURI(), "data:application/pdf;base64,") {
		t.Fatalf("data uri = %q", doc.DataURI()[:40])
	}
}

func TestExport_NoFont(t *testing.T) {
	r := &Renderer{fontPaths: []string{"/nonexistent/font.ttf"}}
	_, err := NewService(r, nil, 0).Export("text")
	if !errors.Is(err, ErrNoFont) {
		t.Fatalf("expected ErrNoFont, got %v", err)
	}
}

type fakeTelegram struct {
	docs     []string
	messages []string
	err      error
}

func (f *fakeTelegram) SendMessage(_ context.Context, _ int64, text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

func (f *fakeTelegram) SendDocument(_ context.Context, _ int64, _ []byte, fileName string) error {
	f.docs = append(f.docs, fileName)
	return f.err
}

func TestSendDoctorReport(t *testing.T) {
	tg := &fakeTelegram{}
	doc := Document{FileName: FileName, ContentType: ContentType, Data: []byte("%PDF")}

	if err := NewService(nil, tg, 0).SendDoctorReport(context.Background(), "abc", doc); err != nil {
		t.Fatalf("unconfigured delivery should be a no-op: %v", err)
	}
	if len(tg.docs) != 0 {
		t.Fatalf("sent without chat id")
	}

	if err := NewService(nil, tg, 42).SendDoctorReport(context.Background(), "abc", doc); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(tg.docs) != 1 || tg.docs[0] != "report_abc.pdf" || len(tg.messages) != 1 {
		t.Fatalf("docs=%v messages=%v", tg.docs, tg.messages)
	}

	tg.err = errors.New("boom")
	if err := NewService(nil, tg, 42).SendDoctorReport(context.Background(), "abc", doc); err == nil {
		t.Fatalf("expected error")
	}
}
