//go:build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

const baseURL = "http://localhost:8080"

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MinLatency      int64
	MaxLatency      int64
}

func main() {
	rand.Seed(time.Now().UnixNano())

	fmt.Println("CampusPool Load Test")
	fmt.Println("====================")

	fmt.Println("\n1. Creating test data...")
	riderIDs, driverIDs := createTestData()

	if len(riderIDs) == 0 || len(driverIDs) == 0 {
		log.Fatal("Failed to create test data")
	}

	fmt.Printf("Created %d riders and %d drivers\n", len(riderIDs), len(driverIDs))

	fmt.Println("\n2. Testing Ride Creation (100 rides, 10 concurrent)...")
	stats, rideIDs := testRideCreation(driverIDs, 100, 10)
	printStats("Ride Creation", stats)

	if len(rideIDs) == 0 {
		log.Fatal("No rides available for booking tests")
	}

	// All workers pile onto one ride so most requests race for the same
	// seats. Expect a handful of 201s and a wall of 409s, never a 500.
	fmt.Println("\n3. Testing Booking Contention (200 bookings on one ride, 50 concurrent)...")
	stats = testBookingStorm(riderIDs, rideIDs[0], 200, 50)
	printStats("Booking Contention", stats)

	fmt.Println("\n4. Testing Mixed Load (30 seconds)...")
	stats = testMixedLoad(riderIDs, rideIDs, 30*time.Second)
	printStats("Mixed Load", stats)

	fmt.Println("\nLoad test completed!")
}

func createTestData() ([]string, []string) {
	riderIDs := make([]string, 0)
	driverIDs := make([]string, 0)

	for i := 0; i < 30; i++ {
		role := "rider"
		if i%3 == 0 {
			role = "both"
		}
		user := map[string]string{
			"university_id": fmt.Sprintf("LT%06d", rand.Intn(1000000)),
			"email":         fmt.Sprintf("loadtest%d.%d@university.edu", i, rand.Intn(100000)),
			"full_name":     fmt.Sprintf("LoadTest User %d", i),
			"phone":         fmt.Sprintf("33%06d", rand.Intn(1000000)),
			"role":          role,
		}
		body, _ := json.Marshal(user)
		resp, err := http.Post(baseURL+"/v1/users", "application/json", bytes.NewBuffer(body))
		if err != nil {
			continue
		}

		if resp.StatusCode == 201 {
			var result map[string]interface{}
			json.NewDecoder(resp.Body).Decode(&result)
			if id, ok := result["id"].(string); ok {
				if role == "both" {
					driverIDs = append(driverIDs, id)
				} else {
					riderIDs = append(riderIDs, id)
				}
			}
		}
		resp.Body.Close()
	}

	return riderIDs, driverIDs
}

func testRideCreation(driverIDs []string, numRequests, concurrency int) (*Stats, []string) {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	var mu sync.Mutex
	rideIDs := make([]string, 0)
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, driverID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			ride := map[string]interface{}{
				"driver_id":      driverID,
				"vehicle":        "Toyota Corolla",
				"origin":         "University Main Gate",
				"destination":    fmt.Sprintf("District %d", rand.Intn(20)),
				"departure_time": time.Now().Add(time.Duration(1+rand.Intn(72)) * time.Hour).Format(time.RFC3339),
				"total_seats":    1 + rand.Intn(4),
				"base_price":     fmt.Sprintf("%d.%02d", 2+rand.Intn(8), rand.Intn(100)),
			}
			body, _ := json.Marshal(ride)

			req, _ := http.NewRequest("POST", baseURL+"/v1/rides", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Idempotency-Key", fmt.Sprintf("load-test-ride-%d-%d", idx, time.Now().UnixNano()))

			start := time.Now()
			resp, err := http.DefaultClient.Do(req)
			latency := time.Since(start).Milliseconds()

			atomic.AddInt64(&stats.TotalRequests, 1)
			atomic.AddInt64(&stats.TotalLatency, latency)

			if err != nil || resp.StatusCode != 201 {
				atomic.AddInt64(&stats.FailedRequests, 1)
				if resp != nil {
					io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
				return
			}

			var result map[string]interface{}
			json.NewDecoder(resp.Body).Decode(&result)
			resp.Body.Close()
			if id, ok := result["id"].(string); ok {
				mu.Lock()
				rideIDs = append(rideIDs, id)
				mu.Unlock()
			}

			atomic.AddInt64(&stats.SuccessRequests, 1)
			recordLatency(stats, latency)
		}(i, driverIDs[rand.Intn(len(driverIDs))])
	}

	wg.Wait()
	return stats, rideIDs
}

func testBookingStorm(riderIDs []string, rideID string, numRequests, concurrency int) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	var booked int64
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, riderID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			booking := map[string]interface{}{
				"ride_id":  rideID,
				"rider_id": riderID,
				"seats":    1,
			}
			body, _ := json.Marshal(booking)

			req, _ := http.NewRequest("POST", baseURL+"/v1/bookings", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Idempotency-Key", fmt.Sprintf("load-test-booking-%d-%d", idx, time.Now().UnixNano()))

			start := time.Now()
			resp, err := http.DefaultClient.Do(req)
			latency := time.Since(start).Milliseconds()

			atomic.AddInt64(&stats.TotalRequests, 1)
			atomic.AddInt64(&stats.TotalLatency, latency)

			// 409 means the seats ran out, which is the correct outcome
			// for most of these requests.
			if err != nil || (resp.StatusCode != 201 && resp.StatusCode != 409) {
				atomic.AddInt64(&stats.FailedRequests, 1)
				if resp != nil {
					io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
				return
			}
			if resp.StatusCode == 201 {
				atomic.AddInt64(&booked, 1)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			atomic.AddInt64(&stats.SuccessRequests, 1)
			recordLatency(stats, latency)
		}(i, riderIDs[rand.Intn(len(riderIDs))])
	}

	wg.Wait()
	fmt.Printf("  Seats actually booked: %d\n", atomic.LoadInt64(&booked))
	return stats
}

func testMixedLoad(riderIDs, rideIDs []string, duration time.Duration) *Stats {
	stats := &Stats{MinLatency: int64(^uint64(0) >> 1)}
	var wg sync.WaitGroup
	done := make(chan struct{})

	// Ride browsing workers (high frequency)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					var url string
					if rand.Intn(2) == 0 {
						url = baseURL + "/v1/rides"
					} else {
						url = baseURL + "/v1/rides/" + rideIDs[rand.Intn(len(rideIDs))]
					}

					start := time.Now()
					resp, err := http.Get(url)
					latency := time.Since(start).Milliseconds()

					atomic.AddInt64(&stats.TotalRequests, 1)
					atomic.AddInt64(&stats.TotalLatency, latency)

					if err != nil || resp.StatusCode != 200 {
						atomic.AddInt64(&stats.FailedRequests, 1)
					} else {
						atomic.AddInt64(&stats.SuccessRequests, 1)
					}

					if resp != nil {
						io.Copy(io.Discard, resp.Body)
						resp.Body.Close()
					}

					time.Sleep(10 * time.Millisecond)
				}
			}
		}()
	}

	// Booking history workers (lower frequency)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					riderID := riderIDs[rand.Intn(len(riderIDs))]

					start := time.Now()
					resp, err := http.Get(baseURL + "/v1/riders/" + riderID + "/bookings")
					latency := time.Since(start).Milliseconds()

					atomic.AddInt64(&stats.TotalRequests, 1)
					atomic.AddInt64(&stats.TotalLatency, latency)

					if err != nil || resp.StatusCode != 200 {
						atomic.AddInt64(&stats.FailedRequests, 1)
					} else {
						atomic.AddInt64(&stats.SuccessRequests, 1)
					}

					if resp != nil {
						io.Copy(io.Discard, resp.Body)
						resp.Body.Close()
					}

					time.Sleep(100 * time.Millisecond)
				}
			}
		}()
	}

	time.Sleep(duration)
	close(done)
	wg.Wait()

	return stats
}

func recordLatency(stats *Stats, latency int64) {
	for {
		old := atomic.LoadInt64(&stats.MinLatency)
		if latency >= old || atomic.CompareAndSwapInt64(&stats.MinLatency, old, latency) {
			break
		}
	}
	for {
		old := atomic.LoadInt64(&stats.MaxLatency)
		if latency <= old || atomic.CompareAndSwapInt64(&stats.MaxLatency, old, latency) {
			break
		}
	}
}

func printStats(name string, stats *Stats) {
	avgLatency := float64(0)
	if stats.TotalRequests > 0 {
		avgLatency = float64(stats.TotalLatency) / float64(stats.TotalRequests)
	}

	fmt.Printf("\n%s Results:\n", name)
	fmt.Printf("  Total Requests:   %d\n", stats.TotalRequests)
	fmt.Printf("  Successful:       %d\n", stats.SuccessRequests)
	fmt.Printf("  Failed:           %d\n", stats.FailedRequests)
	fmt.Printf("  Success Rate:     %.2f%%\n", float64(stats.SuccessRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("  Avg Latency:      %.2f ms\n", avgLatency)
	if stats.MinLatency != int64(^uint64(0)>>1) {
		fmt.Printf("  Min Latency:      %d ms\n", stats.MinLatency)
	}
	fmt.Printf("  Max Latency:      %d ms\n", stats.MaxLatency)
	fmt.Printf("  Throughput:       %.0f req/s\n", float64(stats.TotalRequests)/(float64(stats.TotalLatency)/1000))
}
