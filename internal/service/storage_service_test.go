package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/model"
)

func TestStorageService_ExportAttemptLocal(t *testing.T) {
	dir := t.TempDir()
	svc := NewStorageService(&config.StorageConfig{Type: "local", LocalPath: dir})

	attempt := &model.AttemptRecord{
		UUIDBase:       model.UUIDBase{ID: "a1"},
		CourseID:       "c1",
		UserID:         "user/1",
		QuizID:         "c1-beginner-0",
		Difficulty:     model.Beginner,
		TotalQuestions: 10,
		CorrectAnswers: 9,
		WrongAnswers:   1,
		Score:          90,
		Timestamp:      time.Now(),
	}
	export, err := svc.ExportAttempt(context.Background(), attempt)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if export.Key != "reports/user%2F1/c1/a1.json" || export.URL != "/uploads/"+export.Key {
		t.Fatalf("unexpected export %+v", export)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(export.Key)))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var report AttemptReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Grade != "A+" || report.Stars != 5 || report.XPGained != 945 || report.Attempt.QuizID != "c1-beginner-0" {
		t.Fatalf("unexpected report %+v", report)
	}

	if err := svc.Provider.Delete(context.Background(), export.Key); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestStorageService_FallsBackToLocal(t *testing.T) {
	svc := NewStorageService(&config.StorageConfig{Type: "minio", MinioEndpoint: "localhost:9000/bucket", LocalPath: t.TempDir()})
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("invalid minio endpoint should fall back to local, got %T", svc.Provider)
	}
}
