package app

import (
	"context"
	"testing"
)

func TestAppContext(t *testing.T) {
	if GetAppFromContext(context.Background()) != nil {
		t.Error("expected no App in an empty context")
	}
	a := &App{Logger: NewLogger("error")}
	ctx := SetAppInContext(context.Background(), a)
	if got := GetAppFromContext(ctx); got != a {
		t.Errorf("expected the stored App, got %v", got)
	}
}
