package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/surveyforge/survey-service/internal/store"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Questionnaire"

type ExportService interface {
	// ExportXLSX renders the session's current draft as an xlsx workbook.
	ExportXLSX(ctx context.Context, session string) ([]byte, string, error)
}

type exportService struct {
	stores *store.Manager
	logger *slog.Logger
}

func NewExportService(stores *store.Manager, logger *slog.Logger) ExportService {
	return &exportService{stores: stores, logger: logger}
}

func (s *exportService) ExportXLSX(_ context.Context, session string) ([]byte, string, error) {
	current := s.stores.ForSession(session).Current()
	if current == nil {
		return nil, "", ErrNoDraft
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), exportSheet)

	f.SetCellValue(exportSheet, "A1", "Title")
	f.SetCellValue(exportSheet, "B1", current.Title)
	f.SetCellValue(exportSheet, "A2", "Intro")
	f.SetCellValue(exportSheet, "B2", current.Intro)

	headers := []string{"#", "ID", "Type", "Question", "Required", "Options"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(exportSheet, cell, header)
	}

	for i, question := range current.Questions {
		row := 5 + i
		f.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), question.ID)
		f.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), string(question.Type))
		f.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), question.Text)
		f.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), question.Required)
		f.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), strings.Join(question.Options, "; "))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("write workbook: %w", err)
	}

	filename := sanitizeFilename(current.Title) + ".xlsx"
	return buf.Bytes(), filename, nil
}

func sanitizeFilename(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "questionnaire"
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return replacer.Replace(title)
}
