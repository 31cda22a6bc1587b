package infra_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/sarathi-client-go/internal/chat/domain"
	"github.com/boddenberg/sarathi-client-go/internal/chat/infra"
	"github.com/boddenberg/sarathi-client-go/internal/infra/storage"

	"github.com/google/go-cmp/cmp"
)

func TestTranscriptStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	defer kv.Close()
	repo := infra.NewTranscriptStore(kv)

	ts := time.Date(2024, 3, 1, 10, 30, 0, 123000000, time.UTC)
	want := []domain.Message{
		{ID: "1", Type: domain.SenderAgent, Content: domain.WelcomeText, Timestamp: ts},
		{ID: "b2f1", Type: domain.SenderUser, Content: "कल कितना कमाया?", Timestamp: ts.Add(time.Minute)},
		{ID: "b2f2", Type: domain.SenderAgent, Content: "**₹1,240** across 9 trips.", Timestamp: ts.Add(2 * time.Minute)},
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestTranscriptStore_AbsentAndCleared(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	defer kv.Close()
	repo := infra.NewTranscriptStore(kv)

	got, err := repo.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("expected nil transcript, got %v (%v)", got, err)
	}

	_ = repo.Save(ctx, []domain.Message{{ID: "1"}})
	if err := repo.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if v, _ := kv.Get(ctx, domain.TranscriptKey); v != nil {
		t.Error("expected transcript key removed")
	}
}

func TestTranscriptStore_ReadsMobileLayout(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	defer kv.Close()

	raw := `[{"id":"1709289000000","type":"user","content":"hi","timestamp":"2024-03-01T10:30:00.000Z"}]`
	_ = kv.Set(ctx, domain.TranscriptKey, []byte(raw))

	got, err := infra.NewTranscriptStore(kv).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1709289000000" || got[0].Type != domain.SenderUser {
		t.Errorf("unexpected transcript %+v", got)
	}
}

func TestTranscriptStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	defer kv.Close()
	_ = kv.Set(ctx, domain.TranscriptKey, []byte("{not json"))

	if _, err := infra.NewTranscriptStore(kv).Load(ctx); err == nil {
		t.Error("expected decode error")
	}
}
