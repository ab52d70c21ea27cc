// README: Bench cases: environment checks, pricing properties over HTTP, quote/booking flow, load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// set by the quote case, read by the booking case
	quoteID string
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
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

// Summary counts results by status.
type Summary struct {
	Pass, Fail, Skip int
}

// Report prints one aligned row per case followed by the totals.
func Report(w io.Writer, results []Result) Summary {
	var sum Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCASE\tLATENCY\tNOTE")
	for _, res := range results {
		switch res.Status {
		case "PASS":
			sum.Pass++
		case "FAIL":
			sum.Fail++
		case "SKIP":
			sum.Skip++
		}
		latency := "-"
		if res.Latency > 0 {
			latency = res.Latency.Round(time.Microsecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Status, res.Name, latency, res.Note)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "\nPASS=%d FAIL=%d SKIP=%d\n", sum.Pass, sum.Fail, sum.Skip)
	return sum
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingDB},
		{Name: "Env: Redis connect", Run: pingRedis},
		{Name: "Env: migration tables exist", Run: tablesExist},

		httpCase("API: health", http.MethodGet, base+"/health", nil, 200),
		httpCase("API: vehicle classes", http.MethodGet, base+"/api/vehicle-classes", nil, 200),
		httpCase("Estimate: negative distance -> 400", http.MethodPost, base+"/api/transfers/estimate",
			map[string]any{"distance_km": -1, "vehicle_class_id": "sedan"}, 400),
		httpCase("Estimate: unknown vehicle -> 400", http.MethodPost, base+"/api/transfers/estimate",
			map[string]any{"distance_km": 10, "vehicle_class_id": "spaceship"}, 400),
		httpCase("Estimate: hour 24 -> 400", http.MethodPost, base+"/api/transfers/estimate",
			map[string]any{"distance_km": 10, "vehicle_class_id": "sedan", "pickup_time": map[string]any{"hour": 24, "is_weekday": true}}, 400),

		{Name: "Estimate: components sum to total", Run: func(ctx context.Context, r *Runner) Result {
			return r.checkEstimate(ctx, map[string]any{
				"distance_km": 50, "vehicle_class_id": "suv",
				"pickup_time": map[string]any{"hour": 8, "is_weekday": true},
			}, func(b breakdown) string {
				sum := b.BasePrice + b.DistanceSurcharge + b.VehicleSurcharge + b.NightSurcharge + b.PeakSurcharge
				if math.Abs(sum-b.TotalPrice) > 1e-9 {
					return fmt.Sprintf("sum %.4f != total %.4f", sum, b.TotalPrice)
				}
				return ""
			})
		}},
		{Name: "Estimate: night and peak exclusive", Run: func(ctx context.Context, r *Runner) Result {
			for hour := 0; hour < 24; hour++ {
				res := r.checkEstimate(ctx, map[string]any{
					"distance_km": 20, "vehicle_class_id": "sedan",
					"pickup_time": map[string]any{"hour": hour, "is_weekday": true},
				}, func(b breakdown) string {
					if b.NightSurcharge > 0 && b.PeakSurcharge > 0 {
						return "both surcharges set"
					}
					return ""
				})
				if res.Status != "PASS" {
					res.Note = fmt.Sprintf("hour %d: %s", hour, res.Note)
					return res
				}
			}
			return Result{Status: "PASS"}
		}},
		{Name: "Estimate: deterministic", Run: func(ctx context.Context, r *Runner) Result {
			req := map[string]any{"distance_km": 77.7, "vehicle_class_id": "luxury", "pickup_time": map[string]any{"hour": 23, "is_weekday": false}}
			var first *breakdown
			for i := 0; i < 10; i++ {
				var out estimateResponse
				if _, err := r.postJSON(ctx, base+"/api/transfers/estimate", req, &out); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if first == nil {
					first = &out.Breakdown
				} else if *first != out.Breakdown {
					return Result{Status: "FAIL", Note: "breakdown changed between calls"}
				}
			}
			return Result{Status: "PASS"}
		}},

		{Name: "Quote: CMB -> Kandy", Run: func(ctx context.Context, r *Runner) Result {
			var out struct {
				ID string `json:"id"`
			}
			start := time.Now()
			status, err := r.postJSON(ctx, base+"/api/transfers/quotes", map[string]any{
				"origin": "CMB", "destination": "Kandy", "vehicle_class_id": "sedan",
			}, &out)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusCreated {
				return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
			}
			r.quoteID = out.ID
			return Result{Status: "PASS", Latency: time.Since(start), Note: "quote=" + out.ID}
		}},
		{Name: "Booking: create from quote", Run: func(ctx context.Context, r *Runner) Result {
			if r.quoteID == "" {
				return Result{Status: "SKIP", Note: "no quote"}
			}
			var out struct {
				Reference string `json:"booking_reference"`
			}
			status, err := r.postJSON(ctx, base+"/api/bookings", map[string]any{
				"quote_id": r.quoteID, "transfer_type": "arrival", "adults": 2,
				"customer": map[string]any{"first_name": "Bench", "last_name": "Runner", "email": "bench@example.com"},
			}, &out)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			if status != http.StatusCreated || !referencePattern.MatchString(out.Reference) {
				return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d ref=%q", status, out.Reference)}
			}
			return Result{Status: "PASS", Note: "ref=" + out.Reference}
		}},

		{Name: "Perf: estimate throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, base+"/api/transfers/estimate", map[string]any{
				"distance_km": 120, "vehicle_class_id": "minivan",
				"pickup_time": map[string]any{"hour": 18, "is_weekday": true},
			})
		}},
	}
}

var referencePattern = regexp.MustCompile(`^AT[0-9A-Z]{8,}$`)

type breakdown struct {
	BasePrice         float64 `json:"base_price"`
	DistanceSurcharge float64 `json:"distance_surcharge"`
	VehicleSurcharge  float64 `json:"vehicle_surcharge"`
	NightSurcharge    float64 `json:"night_surcharge"`
	PeakSurcharge     float64 `json:"peak_surcharge"`
	TotalPrice        float64 `json:"total_price"`
	DistanceKm        float64 `json:"distance_km"`
}

type estimateResponse struct {
	Breakdown breakdown `json:"breakdown"`
}

func (r *Runner) checkEstimate(ctx context.Context, req map[string]any, check func(breakdown) string) Result {
	var out estimateResponse
	start := time.Now()
	status, err := r.postJSON(ctx, r.cfg.BaseURL+"/api/transfers/estimate", req, &out)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", status)}
	}
	if msg := check(out.Breakdown); msg != "" {
		return Result{Status: "FAIL", Note: msg}
	}
	return Result{Status: "PASS", Latency: time.Since(start)}
}

func (r *Runner) postJSON(ctx context.Context, url string, body, out any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func pingDB(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: "SKIP", Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS"}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: "SKIP", Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	return Result{Status: "PASS"}
}

func tablesExist(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: "SKIP", Note: "db not configured"}
	}
	tables, err := extractTables(r.cfg.Migrations)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	for _, t := range tables {
		var exists bool
		err := r.db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
		).Scan(&exists)
		if err != nil {
			return Result{Status: "FAIL", Note: err.Error()}
		}
		if !exists {
			return Result{Status: "FAIL", Note: "missing table: " + t}
		}
	}
	return Result{Status: "PASS", Note: fmt.Sprintf("%d tables", len(tables))}
}

func httpCase(name, method, url string, body any, okStatuses ...int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			var reader io.Reader
			if body != nil {
				b, _ := json.Marshal(body)
				reader = bytes.NewReader(b)
			}
			req, _ := http.NewRequestWithContext(ctx, method, url, reader)
			req.Header.Set("Content-Type", "application/json")
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: "FAIL", Note: err.Error()}
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if contains(okStatuses, resp.StatusCode) {
				return Result{Status: "PASS", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
			}
			return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

var createTablePattern = regexp.MustCompile(`(?i)CREATE TABLE IF NOT EXISTS\s+([a-z_]+)`)

func extractTables(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	var tables []string
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, err
		}
		for _, m := range createTablePattern.FindAllStringSubmatch(string(content), -1) {
			tables = append(tables, m[1])
		}
	}
	return tables, nil
}
