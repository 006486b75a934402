// Command bench drives synthetic CreateAccount load against a running
// coordinator. Emails are drawn from a fixed pool with a Zipfian skew so a
// configurable fraction of requests collide on an existing or in-flight
// email, exercising the email-uniqueness invariants under load.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pingcap/go-ycsb/pkg/generator"

	"bank2pc/network"
)

func main() {
	address := flag.String("address", "127.0.0.1:9000", "coordinator address")
	requests := flag.Int("n", 1000, "total CreateAccount requests to issue")
	concurrency := flag.Int("c", 16, "number of concurrent clients")
	poolSize := flag.Int64("pool", 200, "distinct email pool size")
	skew := flag.Float64("skew", 0.9, "zipfian skewness, 0 (uniform) to <1")
	deadline := flag.Duration("deadline", 3*time.Second, "per-request deadline")
	flag.Parse()

	var committed, aborted, failed int64
	latencies := make(chan time.Duration, *requests)

	var wg sync.WaitGroup
	perWorker := *requests / *concurrency
	extra := *requests % *concurrency
	for w := 0; w < *concurrency; w++ {
		count := perWorker
		if w < extra {
			count++
		}
		wg.Add(1)
		go func(seed int64, count int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			zip := generator.NewZipfianWithRange(0, *poolSize-1, *skew)
			for i := 0; i < count; i++ {
				email := fmt.Sprintf("user-%d@bench", zip.Next(r))
				req := network.CreateAccountReq{
					Name:           fmt.Sprintf("bench-%d-%d", seed, i),
					Email:          email,
					InitialBalance: 100,
				}
				start := time.Now()
				ctx, cancel := context.WithTimeout(context.Background(), *deadline)
				var resp network.CreateAccountResp
				err := network.Call(ctx, *address, "create_account", req, &resp)
				cancel()
				latencies <- time.Since(start)

				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case resp.Success:
					atomic.AddInt64(&committed, 1)
				default:
					atomic.AddInt64(&aborted, 1)
				}
			}
		}(int64(w+1), count)
	}
	wg.Wait()
	close(latencies)

	samples := make([]time.Duration, 0, *requests)
	for d := range latencies {
		samples = append(samples, d)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	fmt.Printf("requests=%d committed=%d aborted=%d failed=%d\n", len(samples), committed, aborted, failed)
	if len(samples) > 0 {
		fmt.Printf("p50=%s p99=%s max=%s\n", percentile(samples, 0.50), percentile(samples, 0.99), samples[len(samples)-1])
	}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
