package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/tablepos/internal/models"
	"github.com/spf13/cobra"
)

func TestParseLine(t *testing.T) {
	line, err := parseLine(" Shrimp = 0.15 ")
	if err != nil {
		t.Fatal(err)
	}
	if line.Ingredient != "Shrimp" || line.QuantityPerDish != 0.15 {
		t.Errorf("line = %+v", line)
	}

	if _, err := parseLine("Shrimp"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("missing quantity: err = %v", err)
	}
	if _, err := parseLine("Shrimp=lots"); !errors.Is(err, models.ErrInvalidQuantity) {
		t.Errorf("bad quantity: err = %v", err)
	}
}

func TestReportFilter(t *testing.T) {
	cmd := &cobra.Command{}
	addFilterFlags(cmd)
	if err := cmd.Flags().Parse([]string{"--from", "2024-05-01", "--to", "2024-05-02", "--shift", "s1"}); err != nil {
		t.Fatal(err)
	}

	f, err := reportFilter(cmd)
	if err != nil {
		t.Fatal(err)
	}
	wantFrom := time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local)
	wantTo := time.Date(2024, 5, 2, 23, 59, 59, 999999999, time.Local)
	if !f.From.Equal(wantFrom) || !f.To.Equal(wantTo) || f.ShiftID != "s1" {
		t.Errorf("filter = %+v", f)
	}

	bad := &cobra.Command{}
	addFilterFlags(bad)
	if err := bad.Flags().Parse([]string{"--from", "May 1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := reportFilter(bad); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}
