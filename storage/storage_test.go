package storage

import (
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"unify-api/domain"
)

func TestQuoteFilter(t *testing.T) {
	if got := quoteFilter("plain"); got != "plain" {
		t.Fatalf("unexpected value: %q", got)
	}
	if got := quoteFilter("o'brien"); got != "o''brien" {
		t.Fatalf("quote not escaped: %q", got)
	}
}

func TestMapNotFound(t *testing.T) {
	if err := mapNotFound(nil); err != nil {
		t.Fatalf("nil error mapped to %v", err)
	}

	notFound := &azcore.ResponseError{StatusCode: 404}
	if err := mapNotFound(notFound); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	serverErr := &azcore.ResponseError{StatusCode: 503}
	if err := mapNotFound(serverErr); !errors.As(err, &serverErr) {
		t.Fatalf("expected original error, got %v", err)
	}
}
