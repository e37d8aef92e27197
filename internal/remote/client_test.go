package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johnathamoeda-glitch/MotoDash/internal/domain"
)

func TestListTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("order"); got != "date.desc" {
			t.Errorf("order = %q, want date.desc", got)
		}
		if r.Header.Get("apikey") == "" || r.Header.Get("Authorization") == "" {
			t.Error("missing auth headers")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"t2","type":"expense","date":"2024-02-02","amount":"30","category":"Combustível"},
			{"id":"t1","type":"earning","date":"2024-02-01","amount":100,"app":"Uber","km_traveled":50,"hours_worked":2}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "anon-key")
	txs, err := client.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}

	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].ID != "t2" || txs[0].Amount != 30 || txs[0].Category != domain.CategoryFuel {
		t.Errorf("first transaction mismatch: %+v", txs[0])
	}
	if txs[1].KMTraveled != 50 || txs[1].App != domain.PlatformUber {
		t.Errorf("second transaction mismatch: %+v", txs[1])
	}
}

func TestInsertTransactionReturnsStoredRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer = %q, want return=representation", got)
		}

		var row map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, hasID := row["id"]; hasID {
			t.Error("client sent an id; the server assigns ids")
		}

		// Echo the stored row with a server-assigned id.
		row["id"] = "srv-1"
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]interface{}{row})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "anon-key")
	stored, err := client.InsertTransaction(context.Background(), domain.Transaction{
		Type: domain.TypeEarning, Date: "2024-02-05", Amount: 80, App: domain.Platform99, KMTraveled: 40, HoursWorked: 2,
	})
	if err != nil {
		t.Fatalf("InsertTransaction failed: %v", err)
	}
	if stored.ID != "srv-1" {
		t.Errorf("stored id = %q, want srv-1", stored.ID)
	}
}

func TestDeleteGoalFiltersByID(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		gotFilter = r.URL.Query().Get("id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "anon-key")
	if err := client.DeleteGoal(context.Background(), "g7"); err != nil {
		t.Fatalf("DeleteGoal failed: %v", err)
	}
	if gotFilter != "eq.g7" {
		t.Errorf("id filter = %q, want eq.g7", gotFilter)
	}
}

func TestRejectionBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"duplicate key value violates unique constraint"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "anon-key")
	_, err := client.InsertGoal(context.Background(), domain.Goal{Name: "x", TargetAmount: 10})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", apiErr.Status)
	}
	if apiErr.Message != "duplicate key value violates unique constraint" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestUnreachableHostBecomesNetworkError(t *testing.T) {
	// Reserve a port and close it so the connection is refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient(addr, "anon-key")
	_, err := client.ListGoals(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
}
