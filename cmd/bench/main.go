// Command bench measures local DS derivation throughput against a
// synthetic DNSKEY corpus. It never talks to a registry, so it is safe
// to run at any size.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poyrazK/dspilot/internal/dns/record"
)

type Stats struct {
	TotalRecords uint64
	Success      uint64
	Errors       uint64
	Derived      uint64
	Latencies    chan time.Duration
}

func main() {
	count := flag.Int("n", 100000, "Total number of DNSKEY records to process")
	concurrency := flag.Int("c", 8, "Number of concurrent workers")
	digests := flag.String("digest", "all", "Digest types: all or a comma list (SHA-1,SHA-256,SHA-384)")
	seed := flag.Int64("seed", 1, "Corpus generator seed")
	flag.Parse()

	types, err := parseDigestList(*digests)
	if err != nil {
		fmt.Printf("Invalid digest list: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %d synthetic DNSKEY records...\n", *count)
	lines := generateKeyLines(*count, *seed)

	fmt.Printf("Configuration: %d records | %d workers | %d digest types\n", *count, *concurrency, len(types))
	runBenchmark(lines, *concurrency, types)
}

func parseDigestList(s string) ([]record.DigestType, error) {
	if strings.EqualFold(s, "all") {
		return record.SupportedDigestTypes(), nil
	}
	var types []record.DigestType
	for _, name := range strings.Split(s, ",") {
		dt, err := record.ParseDigestType(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		types = append(types, dt)
	}
	return types, nil
}

func runBenchmark(lines []string, concurrency int, types []record.DigestType) {
	if concurrency < 1 {
		concurrency = 1
	}
	stats := Stats{
		Latencies: make(chan time.Duration, len(lines)),
	}

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	chunk := (len(lines) + concurrency - 1) / concurrency
	for w := 0; w < concurrency; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(lines))
		if lo > hi {
			lo = hi
		}
		go func(part []string) {
			defer wg.Done()
			runWorker(part, types, &stats)
		}(lines[lo:hi])
	}

	wg.Wait()
	duration := time.Since(start)
	close(stats.Latencies)

	printReport(duration, &stats, concurrency)
}

func runWorker(lines []string, types []record.DigestType, stats *Stats) {
	for _, line := range lines {
		begin := time.Now()

		key, err := record.ParseDNSKEY(line)
		if err != nil {
			atomic.AddUint64(&stats.Errors, 1)
			atomic.AddUint64(&stats.TotalRecords, 1)
			continue
		}

		set, err := record.Convert(key, types...)
		if err != nil {
			atomic.AddUint64(&stats.Errors, 1)
		} else {
			atomic.AddUint64(&stats.Success, 1)
			atomic.AddUint64(&stats.Derived, uint64(len(set)))
			stats.Latencies <- time.Since(begin)
		}
		atomic.AddUint64(&stats.TotalRecords, 1)
	}
}

func printReport(duration time.Duration, stats *Stats, concurrency int) {
	rps := float64(stats.Success) / duration.Seconds()

	var latencies []time.Duration
	for l := range stats.Latencies {
		latencies = append(latencies, l)
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n============================================")
	fmt.Println("       DS DERIVATION PERFORMANCE REPORT     ")
	fmt.Println("============================================")
	fmt.Printf("Test Duration:    %v\n", duration)
	fmt.Printf("Concurrency:      %d workers\n", concurrency)
	fmt.Printf("Throughput:       %.2f records/sec\n", rps)
	fmt.Printf("DS Derived:       %d\n", stats.Derived)

	fmt.Println("\n--- Record Statistics ---")
	fmt.Printf("Total Processed:  %d\n", stats.TotalRecords)
	fmt.Printf("Successful:       %d\n", stats.Success)
	fmt.Printf("Failed:           %d\n", stats.Errors)
	if stats.TotalRecords > 0 {
		fmt.Printf("Reliability:      %.2f%%\n", (float64(stats.Success)/float64(stats.TotalRecords))*100)
	}

	if len(latencies) > 0 {
		fmt.Println("\n--- Latency Percentiles ---")
		fmt.Printf("P50 (Median):     %v\n", latencies[len(latencies)/2])
		fmt.Printf("P90:              %v\n", latencies[int(float64(len(latencies))*0.90)])
		fmt.Printf("P95:              %v\n", latencies[int(float64(len(latencies))*0.95)])
		fmt.Printf("P99:              %v\n", latencies[int(float64(len(latencies))*0.99)])
		fmt.Printf("Min:              %v\n", latencies[0])
		fmt.Printf("Max:              %v\n", latencies[len(latencies)-1])
	}
	fmt.Println("============================================")
}
