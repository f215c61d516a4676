package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	baseURL          = "http://127.0.0.1:8000"
	numWorkers       = 50
	testDuration     = 10 * time.Second
	numInstallations = 200
	invalidShare     = 0.05
)

var (
	levels    = []string{"paranoid", "enthusiast"}
	countries = []string{"Canada", "United States", "Germany", "Ukraine", "Brazil", "India", "Japan", "France"}
	tokens    = lo.Times(numInstallations, func(_ int) string { return uuid.NewString() })
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== OLGA Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Installations: %d | Countries: %d\n\n", numInstallations, len(countries))

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed data with submissions
	fmt.Println("\n--- Phase 1: Seeding data (POST /api/installation/statistics/) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doPost(rng)
	})

	// Phase 2: Mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (50% POST, 50% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.50:
			return doPost(rng)
		case r < 0.65:
			return doGet("/")
		case r < 0.80:
			return doGet("/map/")
		case r < 0.90:
			return doGet("/api/graphs/")
		default:
			return doGet("/api/map/")
		}
	})

	// Phase 3: Dashboard-heavy load
	fmt.Println("\n--- Phase 3: Read-heavy load (5% POST, 95% GET) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doPost(rng)
		case r < 0.40:
			return doGet("/")
		case r < 0.70:
			return doGet("/map/")
		case r < 0.85:
			return doGet("/api/graphs/")
		default:
			return doGet("/api/map/")
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-24s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-24s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doPost(rng *rand.Rand) result {
	values := url.Values{
		"access_token":                 {tokens[rng.Intn(len(tokens))]},
		"platform_name":                {fmt.Sprintf("Platform %d", rng.Intn(numInstallations))},
		"platform_url":                 {fmt.Sprintf("https://platform-%d.example.com", rng.Intn(numInstallations))},
		"statistics_level":             {levels[rng.Intn(len(levels))]},
		"instances_count":              {strconv.Itoa(rng.Intn(3) + 1)},
		"courses_count":                {strconv.Itoa(rng.Intn(200))},
		"students_count":               {strconv.Itoa(rng.Intn(10000))},
		"generated_certificates_count": {strconv.Itoa(rng.Intn(500))},
	}

	perCountry := make(map[string]int, 3)
	for i := 0; i < rng.Intn(3)+1; i++ {
		perCountry[countries[rng.Intn(len(countries))]] += rng.Intn(1000)
	}
	data, _ := json.Marshal(perCountry)
	values.Set("students_per_country", string(data))

	// A share of submissions is deliberately invalid and must be rejected.
	expected := http.StatusCreated
	if rng.Float64() < invalidShare {
		values.Set("access_token", "not-a-token")
		expected = http.StatusUnauthorized
	}

	start := time.Now()
	resp, err := httpClient.PostForm(baseURL+"/api/installation/statistics/", values)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/installation", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"POST /api/installation", resp.StatusCode, lat, resp.StatusCode != expected}
}

func doGet(path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{"GET " + path, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{"GET " + path, resp.StatusCode, lat, resp.StatusCode != http.StatusOK}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
