package importer

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csv := `date,type,amount,category,paymentMethod,status,dueDate,notes
2025-06-01,income,5000,Salary,Bank Transfer,Completed,,June salary
2025-06-02,expense,120.50,Food,Cash,,,
2025-06-03,expense,200,Rent,,Pending,2025-07-01,`
	records, rowErrs, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors %v", rowErrs)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records got %d", len(records))
	}
	if records[0].Type != "income" || records[0].Category != "Salary" {
		t.Fatalf("unexpected first record %+v", records[0])
	}
	if records[1].Status != "Completed" {
		t.Fatalf("empty status must default to Completed, got %q", records[1].Status)
	}
	if records[2].PaymentMethod != "Other" {
		t.Fatalf("empty payment method must default to Other, got %q", records[2].PaymentMethod)
	}
	if records[2].DueDate == nil || records[2].DueDate.Month() != 7 {
		t.Fatalf("due date not parsed: %+v", records[2])
	}
}

func TestParseCSVBadRowsSkipped(t *testing.T) {
	csv := `date,type,amount,category
2025-06-01,income,100,Salary
not-a-date,income,100,Salary
2025-06-02,transfer,100,Salary
2025-06-03,expense,-5,Food
2025-06-04,expense,50,Food`
	records, rowErrs, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 valid records got %d", len(records))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("expected 3 row errors got %v", rowErrs)
	}
	if rowErrs[0].Row != 2 {
		t.Fatalf("expected first error on row 2 got %d", rowErrs[0].Row)
	}
}

func TestParseCSVSnakeCaseHeader(t *testing.T) {
	csv := `date,type,amount,category,payment_method,due_date
2025-06-01,expense,75,Food,Card,2025-06-20`
	records, rowErrs, err := ParseCSV(strings.NewReader(csv))
	if err != nil || len(rowErrs) != 0 || len(records) != 1 {
		t.Fatalf("parse failed: records=%d rowErrs=%v err=%v", len(records), rowErrs, err)
	}
	if records[0].PaymentMethod != "Card" || records[0].DueDate == nil {
		t.Fatalf("snake_case headers not recognized: %+v", records[0])
	}
}

func TestParseJSON(t *testing.T) {
	body := `[
		{"date":"2025-06-01","type":"income","amount":5000,"category":"Salary","paymentMethod":"Bank Transfer"},
		{"date":"2025-06-02","type":"expense","amount":"120.50","category":"Food","status":"Pending"}
	]`
	records, rowErrs, err := ParseJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(rowErrs) != 0 || len(records) != 2 {
		t.Fatalf("expected 2 records got %d (errs=%v)", len(records), rowErrs)
	}
	if !records[1].Amount.Equal(records[1].Amount.Truncate(2)) {
		t.Fatalf("string amount not parsed: %+v", records[1])
	}
	if records[1].Status != "Pending" {
		t.Fatalf("unexpected status %q", records[1].Status)
	}
}

func TestParseUnsupported(t *testing.T) {
	_, _, err := Parse("data.pdf", strings.NewReader(""))
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
	if Supported("data.pdf") {
		t.Fatalf("pdf must not be supported")
	}
	if !Supported("data.CSV") || !Supported("data.xlsx") || !Supported("data.json") {
		t.Fatalf("csv/json/xlsx must be supported")
	}
}
