package whoop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestSleepsFollowsPagination(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v2/activity/sleep" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.URL.Query().Get("start") == "" || r.URL.Query().Get("end") == "" {
			t.Errorf("expected start and end params, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("nextToken") {
		case "":
			_, _ = w.Write([]byte(`{
  "records": [
    {
      "id": "s-1",
      "start": "2026-03-09T23:00:00Z",
      "end": "2026-03-10T07:00:00Z",
      "nap": false,
      "score_state": "SCORED",
      "score": {
        "stage_summary": {"total_in_bed_time_milli": 28800000, "total_awake_time_milli": 1800000},
        "sleep_efficiency_percentage": 91.5
      }
    }
  ],
  "next_token": "page-2"
}`))
		case "page-2":
			_, _ = w.Write([]byte(`{"records": [{"id": "s-2", "start": "2026-03-10T13:00:00Z", "end": "2026-03-10T13:30:00Z", "nap": true, "score_state": "PENDING_SCORE"}]}`))
		default:
			t.Errorf("unexpected token %s", r.URL.Query().Get("nextToken"))
		}
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: StaticToken("tok")}
	sleeps, err := c.Sleeps(context.Background(), time.Now().Add(-48*time.Hour), time.Now())
	if err != nil {
		t.Fatalf("sleeps: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected 2 page requests, got %d", n)
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 sleeps, got %d", len(sleeps))
	}
	first := sleeps[0]
	if first.Score == nil || first.Score.SleepEfficiencyPercentage != 91.5 {
		t.Fatalf("unexpected score: %+v", first.Score)
	}
	if got := first.Score.StageSummary.Asleep(); got != 7*time.Hour+30*time.Minute {
		t.Errorf("expected 7h30m asleep, got %v", got)
	}
	if sleeps[1].Score != nil || sleeps[1].ScoreState != ScoreStatePendingScore {
		t.Errorf("expected unscored second sleep, got %+v", sleeps[1])
	}
}

func TestUnauthorized(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: StaticToken("expired")}
	_, err := c.Workouts(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStatusError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`rate limited`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: StaticToken("tok")}
	_, err := c.Recoveries(context.Background(), time.Now().Add(-time.Hour), time.Now())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusTooManyRequests || statusErr.Body != "rate limited" {
		t.Errorf("unexpected status error: %+v", statusErr)
	}
}

func TestTimeoutAbortsFetch(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: StaticToken("tok"), Timeout: 50 * time.Millisecond}
	started := time.Now()
	_, err := c.Sleeps(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Errorf("fetch was not bounded by the timeout: %v", elapsed)
	}
}

func TestRecoveryDecoding(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records": [{
  "cycle_id": 93845,
  "sleep_id": "s-1",
  "created_at": "2026-03-10T07:05:00Z",
  "updated_at": "2026-03-10T07:06:00Z",
  "score_state": "SCORED",
  "score": {"recovery_score": 72, "resting_heart_rate": 51, "hrv_rmssd_milli": 61.2}
}]}`))
	}))
	defer ts.Close()

	c := &Client{BaseURL: ts.URL, HTTPClient: ts.Client(), Tokens: StaticToken("tok")}
	recs, err := c.Recoveries(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err != nil {
		t.Fatalf("recoveries: %v", err)
	}
	if len(recs) != 1 || recs[0].CycleID != 93845 || recs[0].Score.RecoveryScore != 72 {
		t.Fatalf("unexpected recoveries: %+v", recs)
	}
}
