// README: Smoke-check cases; webhook surface, schema presence, snapshot store, light load.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	cases := []TestCase{
		{"health", caseHealth},
		{"voice_start_requires_call_sid", caseStartValidation},
		{"voice_start_greets", caseStartGreets},
		{"voice_turn_instruction_shape", caseTurnShape},
		{"db_schema_present", caseSchema},
		{"redis_snapshot_roundtrip", caseSnapshot},
		{"health_under_load", caseLoad},
	}

	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		start := time.Now()
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		res.Latency = time.Since(start)
		fmt.Printf("%-32s %-5s %8s  %s\n", res.Name, res.Status, res.Latency.Round(time.Millisecond), res.Note)
		results = append(results, res)
	}
	return results
}

func pass(note string) Result { return Result{Status: "PASS", Note: note} }
func fail(note string) Result { return Result{Status: "FAIL", Note: note} }
func skip(note string) Result { return Result{Status: "SKIP", Note: note} }

func caseHealth(ctx context.Context, r *Runner) Result {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
	resp, err := r.httpc.Do(req)
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	return pass("")
}

func caseStartValidation(ctx context.Context, r *Runner) Result {
	resp, err := r.postForm(ctx, "/voice", url.Values{})
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		return fail(fmt.Sprintf("missing CallSid got %d, want 400", resp.StatusCode))
	}
	return pass("")
}

func caseStartGreets(ctx context.Context, r *Runner) Result {
	resp, err := r.postForm(ctx, "/voice", url.Values{"CallSid": {"bench-call"}})
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	body, _ := io.ReadAll(resp.Body)
	var inst struct {
		Say    string `json:"say"`
		Gather bool   `json:"gather"`
	}
	if err := json.Unmarshal(body, &inst); err != nil {
		return fail("bad json: " + err.Error())
	}
	if inst.Say == "" || !inst.Gather {
		return fail("greeting missing or not gathering")
	}
	return pass("")
}

func caseTurnShape(ctx context.Context, r *Runner) Result {
	resp, err := r.postForm(ctx, "/voice/follow_up", url.Values{
		"CallSid":      {"bench-call"},
		"SpeechResult": {"hello"},
	})
	if err != nil {
		return fail(err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Sprintf("status %d", resp.StatusCode))
	}
	body, _ := io.ReadAll(resp.Body)
	var inst struct {
		Say     string `json:"say"`
		EndCall bool   `json:"end_call"`
	}
	if err := json.Unmarshal(body, &inst); err != nil {
		return fail("bad json: " + err.Error())
	}
	if inst.Say == "" {
		return fail("empty instruction text")
	}
	return pass("")
}

func caseSchema(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return skip("no DSN")
	}
	for _, table := range []string{"compose_usage", "transcripts"} {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", table,
		).Scan(&exists)
		if err != nil {
			return fail(err.Error())
		}
		if !exists {
			return fail("missing table " + table)
		}
	}
	return pass("")
}

func caseSnapshot(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return skip("no redis address")
	}
	key := "dialogue:call:bench-probe:state"
	if err := r.redis.Set(ctx, key, `{"call_id":"bench-probe"}`, time.Minute).Err(); err != nil {
		return fail(err.Error())
	}
	val, err := r.redis.Get(ctx, key).Result()
	if err != nil || !strings.Contains(val, "bench-probe") {
		return fail("snapshot roundtrip failed")
	}
	_ = r.redis.Del(ctx, key).Err()
	return pass("")
}

func caseLoad(ctx context.Context, r *Runner) Result {
	var wg sync.WaitGroup
	errs := make(chan error, r.cfg.Concurrency)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
			resp, err := r.httpc.Do(req)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- fmt.Errorf("status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err, ok := <-errs; ok {
		return fail(err.Error())
	}
	return pass(fmt.Sprintf("%d parallel", r.cfg.Concurrency))
}

func (r *Runner) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.httpc.Do(req)
}
