package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"enquiry-desk/internal/domain/enquiries"
)

// El claim es la operación crítica del sistema: N goroutines compiten
// por la misma consulta y exactamente una debe quedarse con ella.
func TestEnquiryRepo_ClaimUnclaimed_Exclusivo(t *testing.T) {
	repo := NewEnquiryRepo()
	ctx := context.Background()

	e := enquiries.Enquiry{
		ID:        "enq-1",
		Name:      "Ana Torres",
		Email:     "ana@example.com",
		Phone:     "5551234567",
		Status:    enquiries.StatusUnclaimed,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}

	const racers = 64

	var (
		start sync.WaitGroup
		done  sync.WaitGroup
		mu    sync.Mutex
		wins  []string
	)
	start.Add(1)
	done.Add(racers)

	for i := 0; i < racers; i++ {
		empID := fmt.Sprintf("emp-%02d", i)
		go func() {
			defer done.Done()
			start.Wait()
			n, err := repo.ClaimUnclaimed(ctx, "enq-1", empID, time.Now())
			if err != nil {
				t.Errorf("claim: %v", err)
				return
			}
			if n == 1 {
				mu.Lock()
				wins = append(wins, empID)
				mu.Unlock()
			}
		}()
	}
	start.Done()
	done.Wait()

	if len(wins) != 1 {
		t.Fatalf("expected exactly one winner, got %d (%v)", len(wins), wins)
	}

	got, err := repo.GetByID(ctx, "enq-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != enquiries.StatusClaimed || got.ClaimedBy == nil || *got.ClaimedBy != wins[0] {
		t.Fatalf("claim state inconsistent: status=%s claimed_by=%v", got.Status, got.ClaimedBy)
	}
}

func TestEnquiryRepo_AppendNote_SeqMonotonico(t *testing.T) {
	repo := NewEnquiryRepo()
	ctx := context.Background()

	e := enquiries.Enquiry{ID: "enq-2", Status: enquiries.StatusUnclaimed}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Timestamps desordenados a propósito: el orden lo da seq, no el reloj
	base := time.Now()
	for i, at := range []time.Time{base, base.Add(-time.Hour), base.Add(-2 * time.Hour)} {
		n := enquiries.Note{Text: fmt.Sprintf("nota %d", i), AddedBy: "emp-01", AddedAt: at}
		if err := repo.AppendNote(ctx, "enq-2", n); err != nil {
			t.Fatalf("append note %d: %v", i, err)
		}
	}

	got, err := repo.GetByID(ctx, "enq-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(got.Notes))
	}
	for i, n := range got.Notes {
		if n.Seq != int64(i+1) {
			t.Fatalf("note %d has seq %d", i, n.Seq)
		}
		if n.Text != fmt.Sprintf("nota %d", i) {
			t.Fatalf("note %d out of order: %q", i, n.Text)
		}
	}
}
