package receipt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/penny-for-your-thoughts/internal/llm"
	"github.com/Veraticus/penny-for-your-thoughts/internal/model"
)

type stubParser struct {
	data *llm.ReceiptData
	err  error
}

func (s *stubParser) Parse(_ context.Context, _ string) (*llm.ReceiptData, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.data
	return &copied, nil
}

type stubConverter struct {
	result decimal.Decimal
	err    error
	calls  int
}

func (s *stubConverter) Convert(_ context.Context, _ decimal.Decimal, _, _ string) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.result, nil
}

type stubCategories struct {
	byName map[string]*model.Category
}

func (s *stubCategories) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	return s.byName[strings.ToLower(name)], nil
}

func testCategories() *stubCategories {
	return &stubCategories{byName: map[string]*model.Category{
		"groceries": {ID: "cat-1", Name: "Groceries", Description: "Food", Icon: "🛒"},
		"other":     {ID: "cat-other", Name: "Other", Description: "Everything else", Icon: "📦"},
	}}
}

func TestProcessMatchesCatalogCategory(t *testing.T) {
	parser := &stubParser{data: &llm.ReceiptData{
		StoreName:   "Market",
		Currency:    "VND",
		TotalAmount: decimal.NewFromInt(150000),
		Category:    llm.ReceiptCategory{Name: "Groceries", Description: "guess", Icon: "x"},
	}}
	converter := &stubConverter{}
	svc := NewService(parser, converter, testCategories(), nil)

	got, err := svc.Process(context.Background(), "receipt text")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.Category.ID != "cat-1" {
		t.Errorf("Expected catalog category, got %+v", got.Category)
	}
	if converter.calls != 0 {
		t.Errorf("Expected no conversion for base currency, got %d calls", converter.calls)
	}
	if !got.ConvertedAmount.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("Expected converted amount unchanged, got %s", got.ConvertedAmount)
	}
	if !strings.Contains(got.Category.Description, "150000 VND") {
		t.Errorf("Unexpected description: %q", got.Category.Description)
	}
}

func TestProcessFallsBackToOther(t *testing.T) {
	parser := &stubParser{data: &llm.ReceiptData{
		Currency:    "VND",
		TotalAmount: decimal.NewFromInt(100),
		Category:    llm.ReceiptCategory{Name: "Spaceships"},
	}}
	svc := NewService(parser, &stubConverter{}, testCategories(), nil)

	got, err := svc.Process(context.Background(), "receipt text")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if got.Category.ID != "cat-other" || got.Category.Name != "Other" {
		t.Errorf("Expected fallback category, got %+v", got.Category)
	}
}

func TestProcessConvertsForeignCurrency(t *testing.T) {
	parser := &stubParser{data: &llm.ReceiptData{
		Currency:    "USD",
		TotalAmount: decimal.NewFromInt(10),
		Category:    llm.ReceiptCategory{Name: "Groceries"},
	}}
	converter := &stubConverter{result: decimal.NewFromInt(250000)}
	svc := NewService(parser, converter, testCategories(), nil)

	got, err := svc.Process(context.Background(), "receipt text")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if converter.calls != 1 {
		t.Errorf("Expected 1 conversion call, got %d", converter.calls)
	}
	if !got.ConvertedAmount.Equal(decimal.NewFromInt(250000)) {
		t.Errorf("Expected converted amount, got %s", got.ConvertedAmount)
	}
	if !got.OriginalAmount.Equal(decimal.NewFromInt(10)) || got.OriginalCurrency != "USD" {
		t.Errorf("Expected original preserved, got %s %s", got.OriginalAmount, got.OriginalCurrency)
	}
	if got.ConvertedCurrency != "VND" {
		t.Errorf("Expected VND, got %s", got.ConvertedCurrency)
	}
}

func TestProcessKeepsAmountWhenConversionFails(t *testing.T) {
	parser := &stubParser{data: &llm.ReceiptData{
		Currency:    "USD",
		TotalAmount: decimal.NewFromInt(10),
		Category:    llm.ReceiptCategory{Name: "Groceries"},
	}}
	converter := &stubConverter{err: errors.New("model returned prose")}
	svc := NewService(parser, converter, testCategories(), nil)

	got, err := svc.Process(context.Background(), "receipt text")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !got.ConvertedAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected original amount kept, got %s", got.ConvertedAmount)
	}
}

func TestProcessPropagatesParseError(t *testing.T) {
	wantErr := errors.New("unparseable")
	svc := NewService(&stubParser{err: wantErr}, &stubConverter{}, testCategories(), nil)

	if _, err := svc.Process(context.Background(), "text"); !errors.Is(err, wantErr) {
		t.Errorf("Expected parse error propagated, got %v", err)
	}
}
