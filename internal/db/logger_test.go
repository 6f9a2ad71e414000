package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerIgnoresMissingRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)

	database, err := Open(Options{Logger: NewLogger(base)})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = Close(database) })

	if err := database.Exec("CREATE TABLE samples (id INTEGER)").Error; err != nil {
		t.Fatalf("creating table failed: %v", err)
	}

	var row struct{ ID int }
	_ = database.Table("samples").First(&row).Error

	if strings.Contains(buf.String(), "record not found") {
		t.Fatalf("expected missing rows to stay quiet, got %q", buf.String())
	}

	if err := database.Exec("SELECT * FROM missing_table").Error; err == nil {
		t.Fatalf("expected error for missing table")
	}
	if !strings.Contains(buf.String(), "component=db") {
		t.Fatalf("expected failing query to be logged, got %q", buf.String())
	}
}

func TestNewLoggerWithoutLogrusIsSilent(t *testing.T) {
	t.Parallel()

	if NewLogger(nil) == nil {
		t.Fatalf("expected a logger")
	}
}
